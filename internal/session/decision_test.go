package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// TestDecide_Unchanged verifies an unchanged document needs no action.
func TestDecide_Unchanged(t *testing.T) {
	t.Parallel()

	outcome := delta.UnchangedOutcome(nil, delta.None[[]delta.ExceptionRegion]())

	assert.Equal(t, DecisionNone, Decide(outcome))
}

// TestDecide_SyntaxErrorBlocks verifies a broken document blocks.
func TestDecide_SyntaxErrorBlocks(t *testing.T) {
	t.Parallel()

	outcome := delta.SyntaxErrorOutcome([]delta.RudeEditDiagnostic{
		{Kind: delta.RudeEditSyntaxError, Message: "unexpected token"},
	})

	assert.Equal(t, DecisionBlock, Decide(outcome))
}

// TestDecide_RudeEditsBlock verifies rude edits block.
func TestDecide_RudeEditsBlock(t *testing.T) {
	t.Parallel()

	outcome := delta.ErrorsOutcome(nil, []delta.RudeEditDiagnostic{
		{Kind: delta.RudeEditSignatureChange},
	}, false)

	assert.Equal(t, DecisionBlock, Decide(outcome))
}

// TestDecide_CleanEditApplies verifies a clean edit with semantic content
// applies.
func TestDecide_CleanEditApplies(t *testing.T) {
	t.Parallel()

	outcome := delta.SuccessOutcome(
		nil,
		nil,
		[]delta.SemanticEdit{{Kind: delta.SemanticEditUpdate, Symbol: "run"}},
		nil,
		nil,
		delta.ErrorStateNoErrors,
	)

	assert.Equal(t, DecisionApply, Decide(outcome))
}

// TestDecide_InsignificantChangeSkips verifies a changed document with no
// semantic or line effect skips.
func TestDecide_InsignificantChangeSkips(t *testing.T) {
	t.Parallel()

	outcome := delta.SuccessOutcome(nil, nil, nil, nil, nil, delta.ErrorStateNoErrors)

	assert.Equal(t, DecisionSkip, Decide(outcome))
}

// TestDecision_String verifies verdict names.
func TestDecision_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", DecisionNone.String())
	assert.Equal(t, "apply", DecisionApply.String())
	assert.Equal(t, "block", DecisionBlock.String())
	assert.Equal(t, "skip", DecisionSkip.String())
	assert.Equal(t, "invalid", Decision(99).String())
}
