// Package tracebuf keeps a bounded, in-memory history of analysis passes
// for post-mortem inspection of a live-edit session. The buffer holds the
// most recent records up to a fixed capacity; older entries are evicted.
package tracebuf

import (
	"sync"
	"time"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// DefaultCapacity is the retention bound used when none is configured.
const DefaultCapacity = 256

// Record is one outcome-derived trace entry. It carries summary counts
// only; the full payload stays with the session manager.
type Record struct {
	Seq               uint64    `json:"seq"`
	Time              time.Time `json:"time"`
	Path              string    `json:"path"`
	Kind              string    `json:"kind"`
	ErrorState        string    `json:"error_state"`
	Decision          string    `json:"decision,omitempty"`
	RudeEditCount     int       `json:"rude_edit_count"`
	SemanticEditCount int       `json:"semantic_edit_count"`
	LineEditCount     int       `json:"line_edit_count"`
}

// NewRecord summarizes an outcome into a trace record. Seq and Time are
// assigned by the log on append.
func NewRecord(path, decision string, outcome delta.Outcome) Record {
	edits, _ := outcome.SemanticEdits().Get()
	lines, _ := outcome.LineEdits().Get()

	return Record{
		Path:              path,
		Kind:              outcome.Kind().String(),
		ErrorState:        outcome.ErrorState().String(),
		Decision:          decision,
		RudeEditCount:     len(outcome.RudeEdits()),
		SemanticEditCount: len(edits),
		LineEditCount:     len(lines),
	}
}

// Log is a bounded ring of Records keyed by a session tag. Safe for
// concurrent use.
type Log struct {
	mu      sync.Mutex
	tag     string
	cap     int
	next    uint64
	entries []Record
	start   int
	count   int
}

// NewLog creates a Log for the given session tag. Non-positive capacities
// fall back to DefaultCapacity.
func NewLog(tag string, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Log{
		tag:     tag,
		cap:     capacity,
		entries: make([]Record, capacity),
	}
}

// Tag returns the session tag the log is keyed by.
func (l *Log) Tag() string {
	return l.tag
}

// Capacity returns the retention bound.
func (l *Log) Capacity() int {
	return l.cap
}

// Append stores a record, evicting the oldest entry when full, and returns
// the assigned sequence number.
func (l *Log) Append(rec Record) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	rec.Seq = l.next

	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	idx := (l.start + l.count) % l.cap

	if l.count == l.cap {
		l.start = (l.start + 1) % l.cap
		idx = (l.start + l.count - 1) % l.cap
	} else {
		l.count++
	}

	l.entries[idx] = rec

	return rec.Seq
}

// Len returns the number of retained records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Snapshot returns the retained records oldest first.
func (l *Log) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, l.count)
	for i := range l.count {
		out[i] = l.entries[(l.start+i)%l.cap]
	}

	return out
}
