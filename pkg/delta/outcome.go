// Package delta defines the result contract between the change-analysis
// engine and the live-edit session manager. An Outcome is the immutable
// verdict of one analysis pass over one document: which analysis stage
// completed, which payloads were computed, and which diagnostics block the
// edit. Invalid field combinations are rejected at construction, so a
// consumer can never observe an inconsistent instance.
package delta

import "fmt"

// Outcome is the validated result of a single document analysis pass.
//
// An Outcome is constructed exactly once, through one of the four named
// factories, and is immutable afterwards. Concurrent readers need no
// synchronization; the held slices are shared read-only and must not be
// mutated by consumers.
type Outcome struct {
	// activeStatements is absent only for the syntax-error form, where
	// statement spans could not be computed at all.
	activeStatements Option[[]ActiveStatement]

	// rudeEdits is always meaningful, possibly empty.
	rudeEdits []RudeEditDiagnostic

	// semanticEdits, exceptionRegions, and lineEdits are present iff the
	// pass reached the corresponding stage; see the factory comments.
	semanticEdits    Option[[]SemanticEdit]
	exceptionRegions Option[[]ExceptionRegion]
	lineEdits        Option[[]LineChange]

	errorState ErrorState
}

// SyntaxErrorOutcome represents a document that failed to parse. No
// statement tracking or edit payload exists for this form.
//
// The error state is HasErrors precisely when diagnostics is empty and a
// non-error state otherwise. The inversion is part of the inherited
// contract; consumers key off HasChangesAndErrors, which is true for both
// shapes. Do not "fix" this without auditing every caller.
func SyntaxErrorOutcome(diagnostics []RudeEditDiagnostic) Outcome {
	state := ErrorStateNoErrors
	if len(diagnostics) == 0 {
		state = ErrorStateHasErrors
	}

	return newOutcome(
		None[[]ActiveStatement](),
		diagnostics,
		None[[]SemanticEdit](),
		None[[]ExceptionRegion](),
		None[[]LineChange](),
		state,
	)
}

// UnchangedOutcome represents a document byte-identical to its baseline.
// Error status was never evaluated. The edit payloads exist but are empty:
// there is nothing to apply, as opposed to "not computed". Exception
// regions are carried through exactly as supplied; when present their
// count must match the active statements.
func UnchangedOutcome(activeStatements []ActiveStatement, exceptionRegions Option[[]ExceptionRegion]) Outcome {
	return newOutcome(
		Some(activeStatements),
		nil,
		Some([]SemanticEdit{}),
		exceptionRegions,
		Some([]LineChange{}),
		ErrorStateNotDetermined,
	)
}

// ErrorsOutcome represents a changed document whose analysis stopped at
// rude edits or compilation errors. The edit payloads were never computed
// and are absent. At least one of the two error conditions must hold;
// anything else is a defect in the caller.
func ErrorsOutcome(activeStatements []ActiveStatement, rudeEdits []RudeEditDiagnostic, hasSemanticErrors bool) Outcome {
	if len(rudeEdits) == 0 && !hasSemanticErrors {
		panic("delta: ErrorsOutcome requires rude edits or semantic errors")
	}

	state := ErrorStateNoErrors
	if hasSemanticErrors {
		state = ErrorStateHasErrors
	}

	return newOutcome(
		Some(activeStatements),
		rudeEdits,
		None[[]SemanticEdit](),
		None[[]ExceptionRegion](),
		None[[]LineChange](),
		state,
	)
}

// SuccessOutcome represents a fully analyzed, error-free change carrying
// the complete edit payload. All three payloads are present (possibly
// empty) and exceptionRegions must have exactly one entry per active
// statement. Field combinations violating the contract invariants panic.
func SuccessOutcome(
	activeStatements []ActiveStatement,
	rudeEdits []RudeEditDiagnostic,
	semanticEdits []SemanticEdit,
	exceptionRegions []ExceptionRegion,
	lineEdits []LineChange,
	errorState ErrorState,
) Outcome {
	return newOutcome(
		Some(activeStatements),
		rudeEdits,
		Some(semanticEdits),
		Some(exceptionRegions),
		Some(lineEdits),
		errorState,
	)
}

// newOutcome is the only way to build an Outcome. It runs the invariant
// gate so that no factory can produce an inconsistent instance.
func newOutcome(
	activeStatements Option[[]ActiveStatement],
	rudeEdits []RudeEditDiagnostic,
	semanticEdits Option[[]SemanticEdit],
	exceptionRegions Option[[]ExceptionRegion],
	lineEdits Option[[]LineChange],
	errorState ErrorState,
) Outcome {
	o := Outcome{
		activeStatements: activeStatements,
		rudeEdits:        rudeEdits,
		semanticEdits:    semanticEdits,
		exceptionRegions: exceptionRegions,
		lineEdits:        lineEdits,
		errorState:       errorState,
	}

	o.validate()

	return o
}

// validate enforces the construction invariants. A violation is a
// programming defect in the analysis engine, not a recoverable condition,
// so it panics rather than returning an error.
func (o Outcome) validate() {
	if !o.errorState.Valid() {
		panic(fmt.Sprintf("delta: invalid error state %d", int(o.errorState)))
	}

	active, haveActive := o.activeStatements.Get()

	// Statement tracking is only ever missing for the syntax-error form,
	// which carries no payload at all.
	if !haveActive && (o.semanticEdits.Present() || o.exceptionRegions.Present() || o.lineEdits.Present()) {
		panic("delta: payload present without active statements")
	}

	// Region count must match the statements whenever regions exist,
	// regardless of which branch produced them.
	if regions, ok := o.exceptionRegions.Get(); ok {
		if !haveActive {
			panic("delta: exception regions present without active statements")
		}

		if len(regions) != len(active) {
			panic(fmt.Sprintf("delta: exception region count %d != active statement count %d",
				len(regions), len(active)))
		}
	}

	switch {
	case o.errorState == ErrorStateNotDetermined:
		o.validateUnchanged()
	case o.errorState == ErrorStateHasErrors || len(o.rudeEdits) > 0:
		o.validateBlocked()
	default:
		o.validateClean()
	}
}

// validateUnchanged checks the NotDetermined branch: nothing to apply, but
// the payloads are affirmatively empty rather than missing. Exception
// regions may be carried through from the previous pass.
func (o Outcome) validateUnchanged() {
	if len(o.rudeEdits) != 0 {
		panic("delta: unchanged document cannot carry rude edits")
	}

	edits, ok := o.semanticEdits.Get()
	if !ok || len(edits) != 0 {
		panic("delta: unchanged document requires empty semantic edits")
	}

	lines, ok := o.lineEdits.Get()
	if !ok || len(lines) != 0 {
		panic("delta: unchanged document requires empty line edits")
	}
}

// validateBlocked checks the error branch: rude edits or compilation
// errors make the payloads meaningless, so they must not exist.
func (o Outcome) validateBlocked() {
	if o.semanticEdits.Present() || o.exceptionRegions.Present() || o.lineEdits.Present() {
		panic("delta: blocked analysis cannot carry an edit payload")
	}
}

// validateClean checks the clean branch: a changed, error-free document
// carries the full payload.
func (o Outcome) validateClean() {
	if !o.semanticEdits.Present() || !o.exceptionRegions.Present() || !o.lineEdits.Present() {
		panic("delta: clean analysis requires the full edit payload")
	}

	if lines, _ := o.lineEdits.Get(); !lineChangesSorted(lines) {
		panic("delta: line edits must be sorted by old line")
	}
}

func lineChangesSorted(lines []LineChange) bool {
	for i := 1; i < len(lines); i++ {
		if lines[i].OldLine < lines[i-1].OldLine {
			return false
		}
	}

	return true
}

// HasChanges reports whether the document differs from its baseline,
// independent of whether the analysis succeeded.
func (o Outcome) HasChanges() bool {
	return o.errorState != ErrorStateNotDetermined
}

// HasChangesAndErrors reports whether the document changed and the change
// cannot be applied: rude edits, compilation errors, or syntax errors.
func (o Outcome) HasChangesAndErrors() bool {
	return o.HasChanges() && (o.errorState == ErrorStateHasErrors || len(o.rudeEdits) > 0)
}

// HasChangesAndCompilationErrors reports the compilation-error verdict
// exactly. It deliberately does not use HasChanges as a guard: a
// NotDetermined state answers false here for a different reason than a
// changed-but-clean one.
func (o Outcome) HasChangesAndCompilationErrors() bool {
	return o.errorState == ErrorStateHasErrors
}

// HasSignificantValidChanges reports whether there is anything for the
// session manager to apply.
func (o Outcome) HasSignificantValidChanges() bool {
	edits, _ := o.semanticEdits.Get()
	lines, _ := o.lineEdits.Get()

	return o.HasChanges() && (len(edits) > 0 || len(lines) > 0)
}

// ErrorState returns the tri-state compilation-error verdict.
func (o Outcome) ErrorState() ErrorState {
	return o.errorState
}

// ActiveStatements returns the tracked statements; absent for the
// syntax-error form.
func (o Outcome) ActiveStatements() Option[[]ActiveStatement] {
	return o.activeStatements
}

// RudeEdits returns the rude-edit diagnostics, possibly empty.
func (o Outcome) RudeEdits() []RudeEditDiagnostic {
	return o.rudeEdits
}

// SemanticEdits returns the semantic-edit payload; absent unless the
// clean branch ran (or present-and-empty for an unchanged document).
func (o Outcome) SemanticEdits() Option[[]SemanticEdit] {
	return o.semanticEdits
}

// ExceptionRegions returns the per-statement exception regions.
func (o Outcome) ExceptionRegions() Option[[]ExceptionRegion] {
	return o.exceptionRegions
}

// LineEdits returns the line-shift payload, sorted by old line.
func (o Outcome) LineEdits() Option[[]LineChange] {
	return o.lineEdits
}

// Kind classifies the Outcome into the terminal state it represents. It is
// derived, not stored; two Outcomes with equal fields have equal kinds.
type Kind int

// Terminal analysis states.
const (
	KindUnchanged Kind = iota
	KindSyntaxError
	KindRudeEdits
	KindCompileErrors
	KindClean
)

var kindNames = map[Kind]string{
	KindUnchanged:     "unchanged",
	KindSyntaxError:   "syntax_error",
	KindRudeEdits:     "rude_edits",
	KindCompileErrors: "compile_errors",
	KindClean:         "clean",
}

// String returns the stable machine name of the kind.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "unknown"
	}

	return name
}

// Kind returns the terminal state this Outcome represents.
func (o Outcome) Kind() Kind {
	switch {
	case !o.activeStatements.Present():
		return KindSyntaxError
	case !o.HasChanges():
		return KindUnchanged
	case o.errorState == ErrorStateHasErrors:
		return KindCompileErrors
	case len(o.rudeEdits) > 0:
		return KindRudeEdits
	default:
		return KindClean
	}
}
