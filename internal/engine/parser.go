package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	forest "github.com/alexaandru/go-sitter-forest"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// Sentinel errors for parser operations.
var (
	errLanguageNotAvailable = errors.New("tree-sitter language not available")
	errNoRootNode           = errors.New("no root node")
	errParserPoolType       = errors.New("parser pool returned unexpected type")
)

// grammarParser wraps a pooled tree-sitter parser for one grammar.
type grammarParser struct {
	grammar string
	pool    sync.Pool
}

var (
	grammarParsersMu sync.Mutex
	grammarParsers   = map[string]*grammarParser{}
)

// parserFor returns the shared parser for a grammar, creating it on first
// use. Grammar lookup panics inside the forest for unknown names, so it is
// wrapped with recovery.
func parserFor(grammar string) (*grammarParser, error) {
	grammarParsersMu.Lock()
	defer grammarParsersMu.Unlock()

	if p, ok := grammarParsers[grammar]; ok {
		return p, nil
	}

	var lang *sitter.Language

	func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		lang = forest.GetLanguage(grammar)
	}()

	if lang == nil {
		return nil, fmt.Errorf("%w: %s", errLanguageNotAvailable, grammar)
	}

	p := &grammarParser{grammar: grammar}
	p.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	grammarParsers[grammar] = p

	return p, nil
}

// parseTree parses content and returns the tree. The caller must Close it.
func (p *grammarParser) parseTree(ctx context.Context, content []byte) (*sitter.Tree, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errParserPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if tree.RootNode().IsNull() {
		tree.Close()

		return nil, errNoRootNode
	}

	return tree, nil
}

// nodeSpan converts a tree-sitter node's points into a contract span.
func nodeSpan(n sitter.Node) delta.Span {
	start := n.StartPoint()
	end := n.EndPoint()

	return delta.Span{
		Start: delta.Pos{Line: int(start.Row), Col: int(start.Column)},
		End:   delta.Pos{Line: int(end.Row), Col: int(end.Column)},
	}
}

// collectSyntaxDiagnostics walks the tree and returns one diagnostic per
// error or missing node. Children of an error node are not descended into;
// the outermost span is the useful one.
func collectSyntaxDiagnostics(root sitter.Node) []delta.RudeEditDiagnostic {
	var diags []delta.RudeEditDiagnostic

	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		if n.IsError() {
			diags = append(diags, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditSyntaxError,
				Span:    nodeSpan(n),
				Message: "syntax error",
			})

			return
		}

		if n.IsMissing() {
			diags = append(diags, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditSyntaxError,
				Span:    nodeSpan(n),
				Message: fmt.Sprintf("missing %s", n.Type()),
			})

			return
		}

		if !n.HasError() {
			return
		}

		for idx := range n.ChildCount() {
			walk(n.Child(idx))
		}
	}

	walk(root)

	return diags
}
