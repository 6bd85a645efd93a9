package delta

// ActiveStatement is a span currently being executed by a live thread,
// tracked across an edit so execution can resume at the right place.
type ActiveStatement struct {
	// Ordinal is the statement's index in the debugger's active-statement
	// table; stable for the lifetime of the session.
	Ordinal int `json:"ordinal"`

	// Span is the statement's location in the document version the
	// Outcome refers to.
	Span Span `json:"span"`

	// LeafFrame marks statements in the topmost frame of some thread.
	// Edits touching a leaf frame are more intrusive than edits below it.
	LeafFrame bool `json:"leaf_frame,omitempty"`
}

// RudeEditKind classifies an edit that cannot be applied to a running
// program.
type RudeEditKind int

// Rude edit kinds recognized by the engine.
const (
	RudeEditSyntaxError RudeEditKind = iota
	RudeEditSignatureChange
	RudeEditDeclarationDeleted
	RudeEditDeclarationKindChange
	RudeEditActiveStatementEdit
)

var rudeEditKindNames = map[RudeEditKind]string{
	RudeEditSyntaxError:           "syntax_error",
	RudeEditSignatureChange:       "signature_change",
	RudeEditDeclarationDeleted:    "declaration_deleted",
	RudeEditDeclarationKindChange: "declaration_kind_change",
	RudeEditActiveStatementEdit:   "active_statement_edit",
}

// String returns the stable machine name of the kind.
func (k RudeEditKind) String() string {
	name, ok := rudeEditKindNames[k]
	if !ok {
		return "unknown"
	}

	return name
}

// RudeEditDiagnostic describes one edit that cannot be safely applied while
// the program is running.
type RudeEditDiagnostic struct {
	Kind    RudeEditKind `json:"kind"`
	Span    Span         `json:"span"`
	Message string       `json:"message"`
}

// SemanticEditKind classifies a change to apply to the running program.
type SemanticEditKind int

// Semantic edit kinds.
const (
	SemanticEditUpdate SemanticEditKind = iota
	SemanticEditInsert
)

// String returns the stable machine name of the kind.
func (k SemanticEditKind) String() string {
	if k == SemanticEditInsert {
		return "insert"
	}

	return "update"
}

// SemanticEdit describes a change to a single declaration in the running
// program's in-memory representation.
type SemanticEdit struct {
	Kind SemanticEditKind `json:"kind"`

	// Symbol identifies the edited declaration (kind-qualified name).
	Symbol string `json:"symbol"`

	// Span is the declaration's location in the edited document.
	Span Span `json:"span"`
}

// ExceptionRegion is the minimal covering set of exception-handler spans
// surrounding one active statement, ordered innermost first.
type ExceptionRegion struct {
	Spans []Span `json:"spans"`
}

// LineChange records an old-line to new-line shift. A sequence of
// LineChanges, sorted by OldLine, remaps debugger state that is keyed by
// line numbers.
type LineChange struct {
	OldLine int `json:"old_line"`
	NewLine int `json:"new_line"`
}
