package delta

// ErrorState is the tri-state compilation-error verdict of an analysis
// pass. It replaces a nullable boolean: NotDetermined means the document
// was unchanged and error status was never evaluated, which is a different
// fact than "evaluated and clean".
type ErrorState int

const (
	// ErrorStateNotDetermined means the document was identical to its
	// baseline and no error evaluation took place.
	ErrorStateNotDetermined ErrorState = iota

	// ErrorStateNoErrors means the changed document compiled cleanly.
	ErrorStateNoErrors

	// ErrorStateHasErrors means the changed document has compilation
	// errors.
	ErrorStateHasErrors
)

var errorStateNames = map[ErrorState]string{
	ErrorStateNotDetermined: "not_determined",
	ErrorStateNoErrors:      "no_errors",
	ErrorStateHasErrors:     "has_errors",
}

// String returns the stable machine name of the state.
func (s ErrorState) String() string {
	name, ok := errorStateNames[s]
	if !ok {
		return "invalid"
	}

	return name
}

// Valid reports whether s is one of the three defined states.
func (s ErrorState) Valid() bool {
	_, ok := errorStateNames[s]

	return ok
}
