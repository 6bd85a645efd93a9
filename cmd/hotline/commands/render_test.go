package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hotline-dev/hotline/pkg/delta"
)

func cleanOutcome(t *testing.T) delta.Outcome {
	t.Helper()

	return delta.SuccessOutcome(
		nil,
		nil,
		[]delta.SemanticEdit{{
			Kind:   delta.SemanticEditUpdate,
			Symbol: "function_declaration greet",
			Span:   delta.Span{Start: delta.Pos{Line: 3, Col: 1}, End: delta.Pos{Line: 5, Col: 2}},
		}},
		nil,
		[]delta.LineChange{{OldLine: 7, NewLine: 9}},
		delta.ErrorStateNoErrors,
	)
}

// TestBuildReport verifies the outcome flattening.
func TestBuildReport(t *testing.T) {
	t.Parallel()

	report := buildReport("main.go", 2048, cleanOutcome(t), "apply")

	assert.Equal(t, "main.go", report.Path)
	assert.Equal(t, "clean", report.Kind)
	assert.Equal(t, "no_errors", report.ErrorState)
	assert.Equal(t, "apply", report.Decision)
	require.Len(t, report.SemanticEdits, 1)
	assert.Equal(t, "function_declaration greet", report.SemanticEdits[0].Symbol)
	require.Len(t, report.LineEdits, 1)
	assert.Equal(t, 7, report.LineEdits[0].OldLine)
}

// TestBuildReport_RudeEdits verifies rude diagnostics survive flattening.
func TestBuildReport_RudeEdits(t *testing.T) {
	t.Parallel()

	outcome := delta.ErrorsOutcome(nil, []delta.RudeEditDiagnostic{
		{Kind: delta.RudeEditSignatureChange, Message: "signature of greet changed"},
	}, false)

	report := buildReport("main.go", 100, outcome, "block")

	require.Len(t, report.RudeEdits, 1)
	assert.Equal(t, "signature_change", report.RudeEdits[0].Kind)
	assert.Empty(t, report.SemanticEdits)
}

// TestRenderReport_JSON verifies the JSON output round-trips.
func TestRenderReport_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report := buildReport("main.go", 2048, cleanOutcome(t), "apply")
	require.NoError(t, renderReport(&buf, report, FormatJSON))

	var decoded outcomeReport

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report, decoded)
}

// TestRenderReport_YAML verifies the YAML output round-trips.
func TestRenderReport_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report := buildReport("main.go", 2048, cleanOutcome(t), "apply")
	require.NoError(t, renderReport(&buf, report, FormatYAML))

	var decoded outcomeReport

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report, decoded)
}

// TestRenderReport_Table verifies the table output names the verdict and
// the edited symbol.
func TestRenderReport_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report := buildReport("main.go", 2048, cleanOutcome(t), "apply")
	require.NoError(t, renderReport(&buf, report, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "apply")
	assert.Contains(t, out, "function_declaration greet")
}

// TestRenderReport_UnknownFormat verifies unrecognized formats fail.
func TestRenderReport_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := renderReport(&bytes.Buffer{}, outcomeReport{}, "xml")
	assert.Error(t, err)
}
