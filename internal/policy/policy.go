// Package policy defines which detected edits count as rude for a live
// session and which grammar node types the engine treats as declarations
// and exception handlers per language. Policies are JSON documents
// validated against an embedded schema before use.
package policy

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hotline-dev/hotline/pkg/delta"
)

//go:embed schema.json
var schemaBytes []byte

// ErrInvalidPolicy is returned when a policy document fails schema
// validation.
var ErrInvalidPolicy = errors.New("invalid policy document")

// LanguageRules names the grammar node types the engine recognizes for one
// language.
type LanguageRules struct {
	// Declarations are node types compared across document versions.
	Declarations []string `json:"declarations"`

	// Handlers are node types whose spans form exception regions.
	Handlers []string `json:"handlers"`

	// Bodies are node types that separate a declaration's header from its
	// body when computing signature changes.
	Bodies []string `json:"bodies"`
}

// Policy selects the rude-edit kinds the engine reports and the node-type
// vocabulary it uses per language.
type Policy struct {
	ReportedKinds []string                 `json:"reported_kinds"`
	Languages     map[string]LanguageRules `json:"languages"`
}

// Default returns the built-in policy: every rude-edit kind is reported
// and the common tree-sitter grammars are covered.
func Default() *Policy {
	p := &Policy{
		ReportedKinds: []string{
			delta.RudeEditSyntaxError.String(),
			delta.RudeEditSignatureChange.String(),
			delta.RudeEditDeclarationDeleted.String(),
			delta.RudeEditDeclarationKindChange.String(),
			delta.RudeEditActiveStatementEdit.String(),
		},
		Languages: map[string]LanguageRules{
			"go": {
				Declarations: []string{"function_declaration", "method_declaration", "type_declaration"},
				Handlers:     []string{"defer_statement", "select_statement"},
				Bodies:       []string{"block"},
			},
			"python": {
				Declarations: []string{"function_definition", "class_definition"},
				Handlers:     []string{"try_statement", "except_clause", "finally_clause", "with_statement"},
				Bodies:       []string{"block"},
			},
			"javascript": {
				Declarations: []string{"function_declaration", "method_definition", "class_declaration"},
				Handlers:     []string{"try_statement", "catch_clause", "finally_clause"},
				Bodies:       []string{"statement_block"},
			},
			"typescript": {
				Declarations: []string{"function_declaration", "method_definition", "class_declaration"},
				Handlers:     []string{"try_statement", "catch_clause", "finally_clause"},
				Bodies:       []string{"statement_block"},
			},
			"java": {
				Declarations: []string{"method_declaration", "constructor_declaration", "class_declaration"},
				Handlers:     []string{"try_statement", "catch_clause", "finally_clause"},
				Bodies:       []string{"block", "class_body"},
			},
			"c": {
				Declarations: []string{"function_definition", "struct_specifier"},
				Handlers:     []string{},
				Bodies:       []string{"compound_statement"},
			},
			"cpp": {
				Declarations: []string{"function_definition", "class_specifier", "struct_specifier"},
				Handlers:     []string{"try_statement", "catch_clause"},
				Bodies:       []string{"compound_statement", "field_declaration_list"},
			},
			"c_sharp": {
				Declarations: []string{"method_declaration", "constructor_declaration", "class_declaration"},
				Handlers:     []string{"try_statement", "catch_clause", "finally_clause"},
				Bodies:       []string{"block", "declaration_list"},
			},
			"ruby": {
				Declarations: []string{"method", "class", "module"},
				Handlers:     []string{"begin", "rescue", "ensure"},
				Bodies:       []string{"body_statement"},
			},
			"rust": {
				Declarations: []string{"function_item", "impl_item", "struct_item"},
				Handlers:     []string{},
				Bodies:       []string{"block"},
			},
		},
	}

	return p
}

// Load reads a policy document, validates it against the embedded schema,
// and merges it over the defaults. An empty path returns the defaults.
func Load(path string) (*Policy, error) {
	base := Default()

	if path == "" {
		return base, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate policy: %w", err)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicy, formatSchemaErrors(result))
	}

	var overlay Policy

	unmarshalErr := json.Unmarshal(raw, &overlay)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode policy: %w", unmarshalErr)
	}

	if overlay.ReportedKinds != nil {
		base.ReportedKinds = overlay.ReportedKinds
	}

	for lang, rules := range overlay.Languages {
		base.Languages[lang] = rules
	}

	return base, nil
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}

	return strings.Join(msgs, "; ")
}

// Reports returns whether the policy reports the given rude-edit kind.
// Unreported kinds are dropped by the engine before the outcome is built.
func (p *Policy) Reports(kind delta.RudeEditKind) bool {
	return slices.Contains(p.ReportedKinds, kind.String())
}

// Rules returns the node-type vocabulary for a grammar name. Unknown
// grammars get empty rules; the engine then reports no declaration-level
// rude edits for them.
func (p *Policy) Rules(grammar string) LanguageRules {
	return p.Languages[grammar]
}
