package engine

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// lineSegment is one run of the line-mode diff: op over a number of whole
// lines.
type lineSegment struct {
	op    diffmatchpatch.Operation
	lines int
}

// computeLineSegments runs diffmatchpatch in line mode and collapses the
// result into line counts per operation.
func computeLineSegments(baseline, current []byte) []lineSegment {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lineIndex := dmp.DiffLinesToChars(string(baseline), string(current))
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	segments := make([]lineSegment, 0, len(diffs))

	for _, d := range diffs {
		n := countLines(d.Text)
		if n == 0 {
			continue
		}

		segments = append(segments, lineSegment{op: d.Type, lines: n})
	}

	return segments
}

// countLines counts whole lines in a line-mode diff chunk. The final line
// of a document may lack a trailing newline but still counts.
func countLines(text string) int {
	if text == "" {
		return 0
	}

	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}

	return n
}

// lineChangesFromSegments derives the sorted old-line to new-line shift
// records. A record is emitted at the start of every equal run whose shift
// differs from the previously reported one.
func lineChangesFromSegments(segments []lineSegment) []delta.LineChange {
	changes := []delta.LineChange{}

	oldLine, newLine, lastShift := 0, 0, 0

	for _, seg := range segments {
		switch seg.op {
		case diffmatchpatch.DiffEqual:
			if shift := newLine - oldLine; shift != lastShift {
				changes = append(changes, delta.LineChange{OldLine: oldLine, NewLine: newLine})
				lastShift = shift
			}

			oldLine += seg.lines
			newLine += seg.lines
		case diffmatchpatch.DiffDelete:
			oldLine += seg.lines
		case diffmatchpatch.DiffInsert:
			newLine += seg.lines
		}
	}

	return changes
}

// remapOldLine maps a baseline line number to its position in the edited
// document. Returns false when the line was deleted or rewritten.
func remapOldLine(segments []lineSegment, line int) (int, bool) {
	oldLine, newLine := 0, 0

	for _, seg := range segments {
		switch seg.op {
		case diffmatchpatch.DiffEqual:
			if line < oldLine+seg.lines {
				return newLine + (line - oldLine), true
			}

			oldLine += seg.lines
			newLine += seg.lines
		case diffmatchpatch.DiffDelete:
			if line < oldLine+seg.lines {
				return 0, false
			}

			oldLine += seg.lines
		case diffmatchpatch.DiffInsert:
			newLine += seg.lines
		}
	}

	return 0, false
}

// remapSpan shifts a baseline span into the edited document. The span
// survives only if every line it covers maps cleanly with a uniform shift;
// an edit touching any covered line invalidates the mapping.
func remapSpan(segments []lineSegment, s delta.Span) (delta.Span, bool) {
	startLine, ok := remapOldLine(segments, s.Start.Line)
	if !ok {
		return delta.Span{}, false
	}

	shift := startLine - s.Start.Line

	for line := s.Start.Line + 1; line <= s.End.Line; line++ {
		mapped, lineOK := remapOldLine(segments, line)
		if !lineOK || mapped-line != shift {
			return delta.Span{}, false
		}
	}

	return delta.Span{
		Start: delta.Pos{Line: startLine, Col: s.Start.Col},
		End:   delta.Pos{Line: s.End.Line + shift, Col: s.End.Col},
	}, true
}
