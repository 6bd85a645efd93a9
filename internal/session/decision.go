// Package session drives live-edit analysis passes, turning outcomes into
// apply/block/skip verdicts and keeping a bounded trace of the session.
package session

import "github.com/hotline-dev/hotline/pkg/delta"

// Decision is the verdict derived from one analysis pass.
type Decision int

const (
	// DecisionNone means the document did not change; nothing to do.
	DecisionNone Decision = iota
	// DecisionApply means the edit is safe to hot-apply.
	DecisionApply
	// DecisionBlock means the edit must not be applied live.
	DecisionBlock
	// DecisionSkip means the edit changed nothing that needs applying.
	DecisionSkip
)

var decisionNames = map[Decision]string{
	DecisionNone:  "none",
	DecisionApply: "apply",
	DecisionBlock: "block",
	DecisionSkip:  "skip",
}

// String returns the lowercase verdict name.
func (d Decision) String() string {
	name, ok := decisionNames[d]
	if !ok {
		return "invalid"
	}

	return name
}

// Decide maps an analysis outcome to a session verdict. Blocked outcomes
// (rude edits, syntax errors, semantic errors) always lose to safety;
// changes with no semantic or line effect are skipped rather than applied.
func Decide(outcome delta.Outcome) Decision {
	if !outcome.HasChanges() {
		return DecisionNone
	}

	if outcome.HasChangesAndErrors() {
		return DecisionBlock
	}

	if outcome.HasSignificantValidChanges() {
		return DecisionApply
	}

	return DecisionSkip
}
