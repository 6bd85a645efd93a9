package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hotline-dev/hotline/internal/baseline"
	"github.com/hotline-dev/hotline/internal/engine"
	"github.com/hotline-dev/hotline/internal/observability"
	"github.com/hotline-dev/hotline/internal/tracebuf"
	"github.com/hotline-dev/hotline/pkg/delta"
)

// Manager owns one live-edit session: it resolves baselines, runs analysis
// passes, derives verdicts, and records each pass in the session trace.
// Safe for concurrent use; passes are serialized so active-statement state
// stays consistent across documents.
type Manager struct {
	mu        sync.Mutex
	analyzer  engine.Analyzer
	baselines baseline.Provider
	trace     *tracebuf.Log
	metrics   *observability.AnalysisMetrics
	logger    *slog.Logger

	// active tracks per-document statement positions, updated after every
	// applied pass so remapping starts from the latest accepted layout.
	active map[string][]delta.ActiveStatement
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMetrics attaches analysis metrics instruments.
func WithMetrics(m *observability.AnalysisMetrics) ManagerOption {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(mgr *Manager) { mgr.logger = l }
}

// NewManager creates a session manager around an analyzer and a baseline
// provider. The trace log retains the most recent passes for archiving.
func NewManager(analyzer engine.Analyzer, baselines baseline.Provider, trace *tracebuf.Log, opts ...ManagerOption) *Manager {
	mgr := &Manager{
		analyzer:  analyzer,
		baselines: baselines,
		trace:     trace,
		logger:    slog.Default(),
		active:    make(map[string][]delta.ActiveStatement),
	}

	for _, opt := range opts {
		opt(mgr)
	}

	return mgr
}

// SetActiveStatements seeds the tracked statement positions for a document,
// replacing any previous set.
func (m *Manager) SetActiveStatements(path string, statements []delta.ActiveStatement) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[path] = statements
}

// Process runs one analysis pass for the document at path with the given
// current content. The baseline comes from the session's provider.
func (m *Manager) Process(ctx context.Context, path string, current []byte) (delta.Outcome, Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.baselines.Baseline(ctx, path)
	if err != nil {
		return delta.Outcome{}, DecisionNone, fmt.Errorf("resolve baseline: %w", err)
	}

	started := time.Now()

	outcome, err := m.analyzer.Analyze(ctx, engine.Snapshot{
		Path:             path,
		Baseline:         base,
		Current:          current,
		ActiveStatements: m.active[path],
	})
	if err != nil {
		return delta.Outcome{}, DecisionNone, fmt.Errorf("analyze %s: %w", path, err)
	}

	decision := Decide(outcome)

	if decision == DecisionApply {
		if remapped, ok := outcome.ActiveStatements().Get(); ok {
			m.active[path] = remapped
		}
	}

	m.trace.Append(tracebuf.NewRecord(path, decision.String(), outcome))
	m.metrics.RecordPass(ctx, outcome.Kind().String(), len(outcome.RudeEdits()), time.Since(started))
	m.metrics.RecordDecision(ctx, decision.String())

	m.logger.InfoContext(ctx, "analysis pass",
		slog.String("path", path),
		slog.String("kind", outcome.Kind().String()),
		slog.String("decision", decision.String()),
		slog.Int("rude_edits", len(outcome.RudeEdits())),
	)

	return outcome, decision, nil
}

// Trace returns the session trace log.
func (m *Manager) Trace() *tracebuf.Log {
	return m.trace
}
