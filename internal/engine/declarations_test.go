package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotline-dev/hotline/internal/policy"
	"github.com/hotline-dev/hotline/pkg/delta"
)

func decl(kind, name, header, body string) declaration {
	return declaration{kind: kind, name: name, headerText: header, bodyText: body}
}

// TestCompareDeclarations_BodyChangeIsSemanticUpdate verifies a body edit
// with an intact header becomes an update edit.
func TestCompareDeclarations_BodyChangeIsSemanticUpdate(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		[]declaration{decl("function_declaration", "run", "func run() ", "{ a() }")},
		[]declaration{decl("function_declaration", "run", "func run() ", "{ b() }")},
		policy.Default(),
	)

	assert.Empty(t, result.rude)
	require.Len(t, result.edits, 1)
	assert.Equal(t, delta.SemanticEditUpdate, result.edits[0].Kind)
	assert.Equal(t, "function_declaration run", result.edits[0].Symbol)
}

// TestCompareDeclarations_HeaderChangeIsRude verifies a signature edit is
// reported as a rude edit with no semantic edits.
func TestCompareDeclarations_HeaderChangeIsRude(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		[]declaration{decl("function_declaration", "run", "func run() ", "{}")},
		[]declaration{decl("function_declaration", "run", "func run(n int) ", "{}")},
		policy.Default(),
	)

	require.Len(t, result.rude, 1)
	assert.Equal(t, delta.RudeEditSignatureChange, result.rude[0].Kind)
	assert.Empty(t, result.edits)
}

// TestCompareDeclarations_DeletionIsRude verifies a removed declaration is
// reported as rude.
func TestCompareDeclarations_DeletionIsRude(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		[]declaration{decl("function_declaration", "gone", "func gone() ", "{}")},
		nil,
		policy.Default(),
	)

	require.Len(t, result.rude, 1)
	assert.Equal(t, delta.RudeEditDeclarationDeleted, result.rude[0].Kind)
}

// TestCompareDeclarations_InsertionIsSemanticInsert verifies a new
// declaration becomes an insert edit.
func TestCompareDeclarations_InsertionIsSemanticInsert(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		nil,
		[]declaration{decl("function_declaration", "fresh", "func fresh() ", "{}")},
		policy.Default(),
	)

	assert.Empty(t, result.rude)
	require.Len(t, result.edits, 1)
	assert.Equal(t, delta.SemanticEditInsert, result.edits[0].Kind)
}

// TestCompareDeclarations_KindChangeIsRude verifies a declaration changing
// its node kind under the same name is rude.
func TestCompareDeclarations_KindChangeIsRude(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		[]declaration{decl("function_declaration", "thing", "func thing() ", "{}")},
		[]declaration{decl("type_declaration", "thing", "type thing struct ", "{}")},
		policy.Default(),
	)

	require.Len(t, result.rude, 1)
	assert.Equal(t, delta.RudeEditDeclarationKindChange, result.rude[0].Kind)
}

// TestCompareDeclarations_MutedKindIsDropped verifies the policy filter
// silences unreported kinds.
func TestCompareDeclarations_MutedKindIsDropped(t *testing.T) {
	t.Parallel()

	pol := policy.Default()
	pol.ReportedKinds = []string{delta.RudeEditSignatureChange.String()}

	result := compareDeclarations(
		[]declaration{decl("function_declaration", "gone", "func gone() ", "{}")},
		nil,
		pol,
	)

	assert.Empty(t, result.rude)
}

// TestCompareDeclarations_Overloads verifies same-named declarations pair
// up by source order.
func TestCompareDeclarations_Overloads(t *testing.T) {
	t.Parallel()

	result := compareDeclarations(
		[]declaration{
			decl("method", "handle", "def handle(a) ", "{1}"),
			decl("method", "handle", "def handle(a, b) ", "{2}"),
		},
		[]declaration{
			decl("method", "handle", "def handle(a) ", "{1}"),
			decl("method", "handle", "def handle(a, b) ", "{changed}"),
		},
		policy.Default(),
	)

	assert.Empty(t, result.rude)
	require.Len(t, result.edits, 1)
	assert.Equal(t, delta.SemanticEditUpdate, result.edits[0].Kind)
}
