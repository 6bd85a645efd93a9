package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/hotline-dev/hotline/pkg/delta"
)

// Output format names.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// errUnknownFormat indicates an unrecognized --format value.
var errUnknownFormat = fmt.Errorf("unknown format (use %s, %s, or %s)", FormatTable, FormatJSON, FormatYAML)

// outcomeReport is the serializable view of one analysis pass.
type outcomeReport struct {
	Path          string             `json:"path"                     yaml:"path"`
	Size          string             `json:"size"                     yaml:"size"`
	Kind          string             `json:"kind"                     yaml:"kind"`
	ErrorState    string             `json:"error_state"              yaml:"error_state"`
	Decision      string             `json:"decision,omitempty"       yaml:"decision,omitempty"`
	RudeEdits     []rudeEditReport   `json:"rude_edits,omitempty"     yaml:"rude_edits,omitempty"`
	SemanticEdits []semanticReport   `json:"semantic_edits,omitempty" yaml:"semantic_edits,omitempty"`
	LineEdits     []lineChangeReport `json:"line_edits,omitempty"     yaml:"line_edits,omitempty"`
}

type rudeEditReport struct {
	Kind    string `json:"kind"              yaml:"kind"`
	Span    string `json:"span"              yaml:"span"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type semanticReport struct {
	Kind   string `json:"kind"   yaml:"kind"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Span   string `json:"span"   yaml:"span"`
}

type lineChangeReport struct {
	OldLine int `json:"old_line" yaml:"old_line"`
	NewLine int `json:"new_line" yaml:"new_line"`
}

// buildReport flattens an outcome for rendering. The decision may be empty
// when the caller has no session verdict.
func buildReport(path string, size int, outcome delta.Outcome, decision string) outcomeReport {
	report := outcomeReport{
		Path:       path,
		Size:       humanize.Bytes(uint64(size)), //nolint:gosec // document sizes are bounded
		Kind:       outcome.Kind().String(),
		ErrorState: outcome.ErrorState().String(),
		Decision:   decision,
	}

	for _, rude := range outcome.RudeEdits() {
		report.RudeEdits = append(report.RudeEdits, rudeEditReport{
			Kind:    rude.Kind.String(),
			Span:    rude.Span.String(),
			Message: rude.Message,
		})
	}

	if edits, ok := outcome.SemanticEdits().Get(); ok {
		for _, edit := range edits {
			report.SemanticEdits = append(report.SemanticEdits, semanticReport{
				Kind:   edit.Kind.String(),
				Symbol: edit.Symbol,
				Span:   edit.Span.String(),
			})
		}
	}

	if lines, ok := outcome.LineEdits().Get(); ok {
		for _, line := range lines {
			report.LineEdits = append(report.LineEdits, lineChangeReport{
				OldLine: line.OldLine,
				NewLine: line.NewLine,
			})
		}
	}

	return report
}

// renderReport writes the report in the requested format.
func renderReport(w io.Writer, report outcomeReport, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatYAML:
		if err := yaml.NewEncoder(w).Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	case FormatTable:
		renderTable(w, report)

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func renderTable(w io.Writer, report outcomeReport) {
	fmt.Fprintf(w, "%s (%s)\n", report.Path, report.Size)
	fmt.Fprintf(w, "  kind: %s  errors: %s", kindColor(report.Kind).Sprint(report.Kind), report.ErrorState)

	if report.Decision != "" {
		fmt.Fprintf(w, "  decision: %s", decisionColor(report.Decision).Sprint(report.Decision))
	}

	fmt.Fprintln(w)

	if len(report.RudeEdits) > 0 {
		tbl := newTable(w)
		tbl.AppendHeader(table.Row{"rude edit", "span", "message"})

		for _, rude := range report.RudeEdits {
			tbl.AppendRow(table.Row{rude.Kind, rude.Span, rude.Message})
		}

		tbl.Render()
	}

	if len(report.SemanticEdits) > 0 {
		tbl := newTable(w)
		tbl.AppendHeader(table.Row{"semantic edit", "symbol", "span"})

		for _, edit := range report.SemanticEdits {
			tbl.AppendRow(table.Row{edit.Kind, edit.Symbol, edit.Span})
		}

		tbl.Render()
	}

	if len(report.LineEdits) > 0 {
		tbl := newTable(w)
		tbl.AppendHeader(table.Row{"old line", "new line"})

		for _, line := range report.LineEdits {
			tbl.AppendRow(table.Row{line.OldLine, line.NewLine})
		}

		tbl.Render()
	}
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

func kindColor(kind string) *color.Color {
	switch kind {
	case "clean", "unchanged":
		return color.New(color.FgGreen)
	case "rude_edits", "compile_errors", "syntax_error":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func decisionColor(decision string) *color.Color {
	switch decision {
	case "apply":
		return color.New(color.FgGreen)
	case "block":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
