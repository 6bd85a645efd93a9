package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorState_String verifies the stable machine names.
func TestErrorState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not_determined", ErrorStateNotDetermined.String())
	assert.Equal(t, "no_errors", ErrorStateNoErrors.String())
	assert.Equal(t, "has_errors", ErrorStateHasErrors.String())
	assert.Equal(t, "invalid", ErrorState(42).String())
}

// TestErrorState_Valid verifies only the three defined states validate.
func TestErrorState_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, ErrorStateNotDetermined.Valid())
	assert.True(t, ErrorStateNoErrors.Valid())
	assert.True(t, ErrorStateHasErrors.Valid())
	assert.False(t, ErrorState(-1).Valid())
	assert.False(t, ErrorState(3).Valid())
}

// TestErrorState_InvalidStatePanicsAtConstruction verifies the invariant
// gate rejects out-of-range states.
func TestErrorState_InvalidStatePanicsAtConstruction(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		SuccessOutcome(nil, nil, []SemanticEdit{}, []ExceptionRegion{}, []LineChange{}, ErrorState(9))
	})
}
