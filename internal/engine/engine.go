// Package engine computes change-analysis outcomes for live-edit sessions.
// It compares an edited document against its committed baseline and
// produces a delta.Outcome: unchanged, syntax error, rude edits,
// compilation errors, or a clean change with a full edit payload.
package engine

import (
	"context"
	"errors"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// Sentinel errors for analysis requests the engine cannot serve. These are
// engine failures, not analysis verdicts; verdicts are always data inside
// a constructed Outcome.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrDocumentTooLarge    = errors.New("document exceeds size limit")
	ErrBaselineSyntax      = errors.New("baseline does not parse")
)

// Snapshot is one document pair handed to the engine: the committed
// baseline, the edited text, and the debugger's active statements located
// in the baseline.
type Snapshot struct {
	// Path names the document; used for language detection and reporting.
	Path string

	// Baseline is the committed document content.
	Baseline []byte

	// Current is the edited document content.
	Current []byte

	// ActiveStatements are the spans currently executing, positioned in
	// the baseline.
	ActiveStatements []delta.ActiveStatement
}

// Analyzer produces the outcome of one analysis pass. Implementations must
// return verdicts as Outcome data and reserve the error return for
// requests they cannot analyze at all.
type Analyzer interface {
	Analyze(ctx context.Context, snap Snapshot) (delta.Outcome, error)
}

// SemanticChecker reports whether the edited document has compilation
// errors. The engine carries its verdict into the outcome; it never turns
// it into a Go error. A nil checker means "no semantic analysis", which
// reads as error-free.
type SemanticChecker interface {
	Check(ctx context.Context, snap Snapshot) (bool, error)
}
