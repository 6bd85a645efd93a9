package tracebuf

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotline-dev/hotline/pkg/delta"
)

const testCapacity = 4

// TestLog_AppendAssignsSequence verifies sequence numbers are monotonic
// from one.
func TestLog_AppendAssignsSequence(t *testing.T) {
	t.Parallel()

	log := NewLog("sess-1", testCapacity)

	assert.Equal(t, uint64(1), log.Append(Record{Path: "a.go"}))
	assert.Equal(t, uint64(2), log.Append(Record{Path: "b.go"}))
	assert.Equal(t, 2, log.Len())
}

// TestLog_EvictsOldestWhenFull verifies the retention bound holds and the
// oldest records leave first.
func TestLog_EvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	log := NewLog("sess-1", testCapacity)

	for i := range testCapacity + 2 {
		log.Append(Record{Path: fmt.Sprintf("doc-%d.go", i)})
	}

	assert.Equal(t, testCapacity, log.Len())

	records := log.Snapshot()
	require.Len(t, records, testCapacity)
	assert.Equal(t, "doc-2.go", records[0].Path)
	assert.Equal(t, "doc-5.go", records[testCapacity-1].Path)
	assert.Equal(t, uint64(3), records[0].Seq)
}

// TestLog_SnapshotOrder verifies snapshot order is oldest first before and
// after wraparound.
func TestLog_SnapshotOrder(t *testing.T) {
	t.Parallel()

	log := NewLog("sess-1", testCapacity)

	for i := range testCapacity * 3 {
		log.Append(Record{Path: fmt.Sprintf("doc-%d.go", i)})
	}

	records := log.Snapshot()
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].Seq, records[i].Seq)
	}
}

// TestLog_DefaultCapacity verifies non-positive capacities fall back to
// the default.
func TestLog_DefaultCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCapacity, NewLog("sess-1", 0).Capacity())
	assert.Equal(t, DefaultCapacity, NewLog("sess-1", -3).Capacity())
}

// TestLog_ConcurrentAppends verifies appends are safe under contention and
// retention still holds.
func TestLog_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	const writers = 8

	log := NewLog("sess-1", testCapacity)

	var wg sync.WaitGroup

	for w := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				log.Append(Record{Path: fmt.Sprintf("w%d-%d.go", w, i)})
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, testCapacity, log.Len())
}

// TestNewRecord_SummarizesOutcome verifies the outcome-to-record mapping.
func TestNewRecord_SummarizesOutcome(t *testing.T) {
	t.Parallel()

	outcome := delta.SuccessOutcome(
		[]delta.ActiveStatement{{Ordinal: 0}},
		nil,
		[]delta.SemanticEdit{{Kind: delta.SemanticEditUpdate, Symbol: "func run"}},
		[]delta.ExceptionRegion{{}},
		[]delta.LineChange{{OldLine: 1, NewLine: 2}},
		delta.ErrorStateNoErrors,
	)

	rec := NewRecord("main.go", "apply", outcome)

	assert.Equal(t, "main.go", rec.Path)
	assert.Equal(t, "clean", rec.Kind)
	assert.Equal(t, "no_errors", rec.ErrorState)
	assert.Equal(t, "apply", rec.Decision)
	assert.Equal(t, 0, rec.RudeEditCount)
	assert.Equal(t, 1, rec.SemanticEditCount)
	assert.Equal(t, 1, rec.LineEditCount)
}

// TestArchive_RoundTrip verifies the LZ4 archive round-trips tag and
// records.
func TestArchive_RoundTrip(t *testing.T) {
	t.Parallel()

	log := NewLog("sess-roundtrip", testCapacity)
	log.Append(NewRecord("a.go", "apply", delta.UnchangedOutcome(nil, delta.None[[]delta.ExceptionRegion]())))
	log.Append(NewRecord("b.go", "block", delta.SyntaxErrorOutcome(nil)))

	var buf bytes.Buffer

	require.NoError(t, log.Archive(&buf))

	tag, records, err := ReadArchive(&buf)
	require.NoError(t, err)

	assert.Equal(t, "sess-roundtrip", tag)
	require.Len(t, records, 2)
	assert.Equal(t, "a.go", records[0].Path)
	assert.Equal(t, "unchanged", records[0].Kind)
	assert.Equal(t, "syntax_error", records[1].Kind)
}

// TestReadArchive_Garbage verifies corrupt input fails cleanly.
func TestReadArchive_Garbage(t *testing.T) {
	t.Parallel()

	_, _, err := ReadArchive(bytes.NewReader([]byte("not an archive")))
	assert.Error(t, err)
}
