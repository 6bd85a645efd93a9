package delta

import "fmt"

// Pos is a zero-based position in a document.
type Pos struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

// String renders the span as "startLine:startCol-endLine:endCol".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Contains reports whether p lies within the span.
func (s Span) Contains(p Pos) bool {
	if p.Line < s.Start.Line || p.Line > s.End.Line {
		return false
	}

	if p.Line == s.Start.Line && p.Col < s.Start.Col {
		return false
	}

	if p.Line == s.End.Line && p.Col >= s.End.Col {
		return false
	}

	return true
}
