package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/hotline-dev/hotline/internal/policy"
	"github.com/hotline-dev/hotline/pkg/delta"
)

// DefaultMaxDocumentSize bounds the documents the engine will analyze.
const DefaultMaxDocumentSize = 4 << 20

// TreeAnalyzer is the reference Analyzer: tree-sitter syntax trees for
// structure, a line-mode text diff for statement remapping, and the policy
// vocabulary for rude-edit classification.
type TreeAnalyzer struct {
	policy  *policy.Policy
	checker SemanticChecker
	logger  *slog.Logger
	maxSize int
}

// AnalyzerOption configures a TreeAnalyzer.
type AnalyzerOption func(*TreeAnalyzer)

// WithSemanticChecker installs a compilation-error oracle.
func WithSemanticChecker(checker SemanticChecker) AnalyzerOption {
	return func(a *TreeAnalyzer) { a.checker = checker }
}

// WithLogger installs a structured logger for per-pass telemetry.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *TreeAnalyzer) { a.logger = logger }
}

// WithMaxDocumentSize overrides the document size bound.
func WithMaxDocumentSize(limit int) AnalyzerOption {
	return func(a *TreeAnalyzer) { a.maxSize = limit }
}

// NewTreeAnalyzer creates an analyzer governed by the given policy.
func NewTreeAnalyzer(pol *policy.Policy, opts ...AnalyzerOption) *TreeAnalyzer {
	a := &TreeAnalyzer{
		policy:  pol,
		logger:  slog.Default(),
		maxSize: DefaultMaxDocumentSize,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze runs one pass over the snapshot. Analysis verdicts come back as
// Outcome data; the error return is reserved for documents the engine
// cannot analyze at all.
func (a *TreeAnalyzer) Analyze(ctx context.Context, snap Snapshot) (delta.Outcome, error) {
	if len(snap.Current) > a.maxSize || len(snap.Baseline) > a.maxSize {
		return delta.Outcome{}, fmt.Errorf("%w: %s", ErrDocumentTooLarge, snap.Path)
	}

	grammar := detectGrammar(snap.Path, snap.Current)
	if grammar == "" {
		return delta.Outcome{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, snap.Path)
	}

	parser, err := parserFor(grammar)
	if err != nil {
		return delta.Outcome{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, grammar)
	}

	rules := a.policy.Rules(grammar)

	if bytes.Equal(snap.Baseline, snap.Current) {
		return a.analyzeUnchanged(ctx, parser, snap, rules)
	}

	return a.analyzeChanged(ctx, parser, snap, rules, grammar)
}

// analyzeUnchanged handles the byte-identical case. Error status is never
// evaluated; the pass only refreshes exception regions when the document
// parses cleanly.
func (a *TreeAnalyzer) analyzeUnchanged(
	ctx context.Context, parser *grammarParser, snap Snapshot, rules policy.LanguageRules,
) (delta.Outcome, error) {
	regions := delta.None[[]delta.ExceptionRegion]()

	tree, err := parser.parseTree(ctx, snap.Current)
	if err == nil {
		defer tree.Close()

		if root := tree.RootNode(); !root.HasError() {
			regions = delta.Some(exceptionRegionsFor(root, snap.ActiveStatements, rules))
		}
	}

	a.logger.DebugContext(ctx, "analysis: unchanged document",
		"path", snap.Path,
		"active_statements", len(snap.ActiveStatements),
	)

	return delta.UnchangedOutcome(snap.ActiveStatements, regions), nil
}

// analyzeChanged handles the edited case: syntax gate, statement remap,
// declaration comparison, semantic check, then the clean payload.
func (a *TreeAnalyzer) analyzeChanged(
	ctx context.Context, parser *grammarParser, snap Snapshot, rules policy.LanguageRules, grammar string,
) (delta.Outcome, error) {
	currentTree, err := parser.parseTree(ctx, snap.Current)
	if err != nil {
		return delta.Outcome{}, fmt.Errorf("parse %s: %w", snap.Path, err)
	}
	defer currentTree.Close()

	currentRoot := currentTree.RootNode()
	if currentRoot.HasError() {
		diags := collectSyntaxDiagnostics(currentRoot)

		a.logger.DebugContext(ctx, "analysis: syntax errors",
			"path", snap.Path,
			"diagnostics", len(diags),
		)

		return delta.SyntaxErrorOutcome(diags), nil
	}

	baselineTree, err := parser.parseTree(ctx, snap.Baseline)
	if err != nil {
		return delta.Outcome{}, fmt.Errorf("parse baseline of %s: %w", snap.Path, err)
	}
	defer baselineTree.Close()

	baselineRoot := baselineTree.RootNode()
	if baselineRoot.HasError() {
		return delta.Outcome{}, fmt.Errorf("%w: %s", ErrBaselineSyntax, snap.Path)
	}

	segments := computeLineSegments(snap.Baseline, snap.Current)

	remapped, rude := a.remapStatements(snap.ActiveStatements, segments)

	comparison := compareDeclarations(
		collectDeclarations(baselineRoot, snap.Baseline, rules),
		collectDeclarations(currentRoot, snap.Current, rules),
		a.policy,
	)
	rude = append(rude, comparison.rude...)

	hasSemanticErrors, err := a.checkSemantics(ctx, snap)
	if err != nil {
		return delta.Outcome{}, err
	}

	if len(rude) > 0 || hasSemanticErrors {
		a.logger.DebugContext(ctx, "analysis: blocked change",
			"path", snap.Path,
			"rude_edits", len(rude),
			"semantic_errors", hasSemanticErrors,
		)

		return delta.ErrorsOutcome(snap.ActiveStatements, rude, hasSemanticErrors), nil
	}

	lineEdits := lineChangesFromSegments(segments)
	regions := exceptionRegionsFor(currentRoot, remapped, rules)

	a.logger.DebugContext(ctx, "analysis: clean change",
		"path", snap.Path,
		"grammar", grammar,
		"semantic_edits", len(comparison.edits),
		"line_edits", len(lineEdits),
	)

	return delta.SuccessOutcome(
		remapped,
		nil,
		comparison.edits,
		regions,
		lineEdits,
		delta.ErrorStateNoErrors,
	), nil
}

// remapStatements shifts baseline statements into the edited document. A
// statement whose lines were edited cannot be tracked and becomes a rude
// edit; when the policy mutes that kind the statement keeps its baseline
// span as a best effort.
func (a *TreeAnalyzer) remapStatements(
	statements []delta.ActiveStatement, segments []lineSegment,
) ([]delta.ActiveStatement, []delta.RudeEditDiagnostic) {
	remapped := make([]delta.ActiveStatement, 0, len(statements))

	var rude []delta.RudeEditDiagnostic

	for _, stmt := range statements {
		span, ok := remapSpan(segments, stmt.Span)
		if ok {
			stmt.Span = span
			remapped = append(remapped, stmt)

			continue
		}

		if a.policy.Reports(delta.RudeEditActiveStatementEdit) {
			rude = append(rude, delta.RudeEditDiagnostic{
				Kind:    delta.RudeEditActiveStatementEdit,
				Span:    stmt.Span,
				Message: fmt.Sprintf("editing the active statement at %s is not supported", stmt.Span),
			})

			continue
		}

		remapped = append(remapped, stmt)
	}

	return remapped, rude
}

func (a *TreeAnalyzer) checkSemantics(ctx context.Context, snap Snapshot) (bool, error) {
	if a.checker == nil {
		return false, nil
	}

	hasErrors, err := a.checker.Check(ctx, snap)
	if err != nil {
		return false, fmt.Errorf("semantic check of %s: %w", snap.Path, err)
	}

	return hasErrors, nil
}
