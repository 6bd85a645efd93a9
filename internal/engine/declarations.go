package engine

import (
	"fmt"
	"slices"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hotline-dev/hotline/internal/policy"
	"github.com/hotline-dev/hotline/pkg/delta"
)

// declaration is one named declaration extracted from a syntax tree,
// split into a header (signature) and a body for comparison purposes.
type declaration struct {
	kind       string
	name       string
	span       delta.Span
	headerText string
	bodyText   string
}

// key identifies a declaration across document versions. Duplicate names
// get an ordinal suffix so overloads compare pairwise in source order.
func (d declaration) key(ordinal int) string {
	if ordinal == 0 {
		return d.name
	}

	return fmt.Sprintf("%s#%d", d.name, ordinal)
}

// collectDeclarations walks the tree and extracts every node whose type is
// in the language's declaration vocabulary.
func collectDeclarations(root sitter.Node, src []byte, rules policy.LanguageRules) []declaration {
	declTypes := make(map[string]bool, len(rules.Declarations))
	for _, t := range rules.Declarations {
		declTypes[t] = true
	}

	bodyTypes := make(map[string]bool, len(rules.Bodies))
	for _, t := range rules.Bodies {
		bodyTypes[t] = true
	}

	var decls []declaration

	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		if declTypes[n.Type()] {
			decls = append(decls, extractDeclaration(n, src, bodyTypes))
		}

		for idx := range n.NamedChildCount() {
			walk(n.NamedChild(idx))
		}
	}

	walk(root)

	return decls
}

func extractDeclaration(n sitter.Node, src []byte, bodyTypes map[string]bool) declaration {
	text := sliceSource(src, n.StartByte(), n.EndByte())

	d := declaration{
		kind:       n.Type(),
		name:       declarationName(n, src),
		span:       nodeSpan(n),
		headerText: text,
	}

	// The body node splits signature from implementation. Without one the
	// whole text acts as the header, so any change reads as a signature
	// change.
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if bodyTypes[child.Type()] {
			d.headerText = sliceSource(src, n.StartByte(), child.StartByte())
			d.bodyText = sliceSource(src, child.StartByte(), child.EndByte())

			break
		}
	}

	return d
}

// declarationName finds the declaration's identifier: the first named
// descendant whose type names an identifier, searched breadth-first so the
// declaration's own name wins over names inside its parameters or body.
func declarationName(n sitter.Node, src []byte) string {
	queue := make([]sitter.Node, 0, n.NamedChildCount())
	for idx := range n.NamedChildCount() {
		queue = append(queue, n.NamedChild(idx))
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if isIdentifierType(current.Type()) {
			return sliceSource(src, current.StartByte(), current.EndByte())
		}

		for idx := range current.NamedChildCount() {
			queue = append(queue, current.NamedChild(idx))
		}
	}

	return fmt.Sprintf("<anonymous@%s>", nodeSpan(n))
}

func isIdentifierType(nodeType string) bool {
	return nodeType == "identifier" || nodeType == "name" ||
		strings.HasSuffix(nodeType, "_identifier")
}

func sliceSource(src []byte, start, end uint) string {
	if int(end) > len(src) || start > end {
		return ""
	}

	return string(src[start:end])
}

// declDelta is the outcome of comparing one declaration across versions.
type declDelta struct {
	rude  []delta.RudeEditDiagnostic
	edits []delta.SemanticEdit
}

// compareDeclarations pairs baseline and edited declarations by name and
// classifies each pair: signature changes and deletions are rude, body
// changes and insertions become semantic edits.
func compareDeclarations(baseline, current []declaration, pol *policy.Policy) declDelta {
	var result declDelta

	oldByKey := indexDeclarations(baseline)
	newByKey := indexDeclarations(current)

	for _, key := range sortedKeys(oldByKey) {
		oldDecl := oldByKey[key]

		newDecl, exists := newByKey[key]
		if !exists {
			result.appendRude(pol, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditDeclarationDeleted,
				Span:    oldDecl.span,
				Message: fmt.Sprintf("deleting %s %q is not supported during a live session", oldDecl.kind, oldDecl.name),
			})

			continue
		}

		switch {
		case oldDecl.kind != newDecl.kind:
			result.appendRude(pol, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditDeclarationKindChange,
				Span:    newDecl.span,
				Message: fmt.Sprintf("%q changed from %s to %s", oldDecl.name, oldDecl.kind, newDecl.kind),
			})
		case oldDecl.headerText != newDecl.headerText:
			result.appendRude(pol, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditSignatureChange,
				Span:    newDecl.span,
				Message: fmt.Sprintf("changing the signature of %q is not supported during a live session", oldDecl.name),
			})
		case oldDecl.bodyText != newDecl.bodyText:
			result.edits = append(result.edits, delta.SemanticEdit{
				Kind:   delta.SemanticEditUpdate,
				Symbol: fmt.Sprintf("%s %s", newDecl.kind, newDecl.name),
				Span:   newDecl.span,
			})
		}
	}

	for _, key := range sortedKeys(newByKey) {
		if _, exists := oldByKey[key]; exists {
			continue
		}

		newDecl := newByKey[key]
		result.edits = append(result.edits, delta.SemanticEdit{
			Kind:   delta.SemanticEditInsert,
			Symbol: fmt.Sprintf("%s %s", newDecl.kind, newDecl.name),
			Span:   newDecl.span,
		})
	}

	return result
}

func (d *declDelta) appendRude(pol *policy.Policy, diag delta.RudeEditDiagnostic) {
	if pol.Reports(diag.Kind) {
		d.rude = append(d.rude, diag)
	}
}

func indexDeclarations(decls []declaration) map[string]declaration {
	index := make(map[string]declaration, len(decls))
	seen := make(map[string]int, len(decls))

	for _, d := range decls {
		ordinal := seen[d.name]
		seen[d.name] = ordinal + 1
		index[d.key(ordinal)] = d
	}

	return index
}

func sortedKeys(m map[string]declaration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
