package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// TestDefault_ReportsAllKinds verifies the built-in policy reports every
// rude-edit kind.
func TestDefault_ReportsAllKinds(t *testing.T) {
	t.Parallel()

	p := Default()

	assert.True(t, p.Reports(delta.RudeEditSyntaxError))
	assert.True(t, p.Reports(delta.RudeEditSignatureChange))
	assert.True(t, p.Reports(delta.RudeEditDeclarationDeleted))
	assert.True(t, p.Reports(delta.RudeEditDeclarationKindChange))
	assert.True(t, p.Reports(delta.RudeEditActiveStatementEdit))
}

// TestDefault_GoRules verifies the Go vocabulary is present.
func TestDefault_GoRules(t *testing.T) {
	t.Parallel()

	rules := Default().Rules("go")

	assert.Contains(t, rules.Declarations, "function_declaration")
	assert.Contains(t, rules.Bodies, "block")
}

// TestLoad_EmptyPathReturnsDefaults verifies the zero-config path.
func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	p, err := Load("")
	require.NoError(t, err)
	assert.True(t, p.Reports(delta.RudeEditSignatureChange))
}

// TestLoad_OverlayNarrowsKinds verifies a policy file can disable kinds
// and override a language vocabulary.
func TestLoad_OverlayNarrowsKinds(t *testing.T) {
	t.Parallel()

	doc := `{
		"reported_kinds": ["signature_change"],
		"languages": {
			"go": {
				"declarations": ["function_declaration"],
				"handlers": [],
				"bodies": ["block"]
			}
		}
	}`

	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	assert.True(t, p.Reports(delta.RudeEditSignatureChange))
	assert.False(t, p.Reports(delta.RudeEditDeclarationDeleted))
	assert.Equal(t, []string{"function_declaration"}, p.Rules("go").Declarations)

	// Untouched languages keep their defaults.
	assert.Contains(t, p.Rules("python").Declarations, "function_definition")
}

// TestLoad_RejectsUnknownKind verifies schema validation fails fast on a
// kind outside the enum.
func TestLoad_RejectsUnknownKind(t *testing.T) {
	t.Parallel()

	doc := `{"reported_kinds": ["meteor_strike"]}`

	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

// TestLoad_RejectsUnknownTopLevelField verifies additionalProperties is
// enforced.
func TestLoad_RejectsUnknownTopLevelField(t *testing.T) {
	t.Parallel()

	doc := `{"surprise": true}`

	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

// TestLoad_MissingFile verifies a helpful error for a bad path.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// TestRules_UnknownGrammar verifies unknown grammars yield empty rules.
func TestRules_UnknownGrammar(t *testing.T) {
	t.Parallel()

	rules := Default().Rules("brainfuck")
	assert.Empty(t, rules.Declarations)
}
