package engine

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hotline-dev/hotline/internal/policy"
	"github.com/hotline-dev/hotline/pkg/delta"
)

// exceptionRegionsFor computes one region per active statement: the spans
// of the handler-typed ancestors enclosing the statement's start position,
// innermost first. Statements outside any handler get an empty region; the
// contract requires an entry per statement either way.
func exceptionRegionsFor(root sitter.Node, statements []delta.ActiveStatement, rules policy.LanguageRules) []delta.ExceptionRegion {
	handlerTypes := make(map[string]bool, len(rules.Handlers))
	for _, t := range rules.Handlers {
		handlerTypes[t] = true
	}

	regions := make([]delta.ExceptionRegion, len(statements))

	for i, stmt := range statements {
		regions[i] = delta.ExceptionRegion{
			Spans: enclosingHandlerSpans(root, stmt.Span.Start, handlerTypes),
		}
	}

	return regions
}

// enclosingHandlerSpans descends from the root toward pos, recording every
// handler node on the path. The path is reversed so the innermost handler
// comes first.
func enclosingHandlerSpans(root sitter.Node, pos delta.Pos, handlerTypes map[string]bool) []delta.Span {
	spans := []delta.Span{}
	current := root

	for {
		if handlerTypes[current.Type()] {
			spans = append(spans, nodeSpan(current))
		}

		next, found := childAt(current, pos)
		if !found {
			break
		}

		current = next
	}

	for i, j := 0, len(spans)-1; i < j; i, j = i+1, j-1 {
		spans[i], spans[j] = spans[j], spans[i]
	}

	return spans
}

// childAt returns the named child whose span contains pos.
func childAt(n sitter.Node, pos delta.Pos) (sitter.Node, bool) {
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if nodeSpan(child).Contains(pos) {
			return child, true
		}
	}

	return sitter.Node{}, false
}
