package cargowatch

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		formatFlag string
		expected   OutputFormat
	}{
		{name: "default format is issues", formatFlag: "", expected: OutputIssues},
		{name: "explicit issues format", formatFlag: "issues", expected: OutputIssues},
		{name: "explicit summary format", formatFlag: "summary", expected: OutputSummary},
		{name: "explicit json format", formatFlag: "json", expected: OutputJSON},
		{name: "unknown format falls back to issues", formatFlag: "markdown", expected: OutputIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineOutputFormat(tt.formatFlag))
		})
	}
}

func sampleSnapshot() []FileDiagnostics {
	return []FileDiagnostics{
		{File: "/crate/src/lib.rs"},
		{File: "/crate/src/main.rs", Diagnostics: []Diagnostic{
			{
				File:     "/crate/src/main.rs",
				Range:    Range{Start: Position{Line: 4, Character: 2}, End: Position{Line: 4, Character: 9}},
				Message:  "mismatched types",
				Severity: SeverityError,
				Code:     "E0308",
				Source:   DiagnosticSource,
			},
			{
				File:        "/crate/src/main.rs",
				Range:       Range{Start: Position{Line: 1, Character: 8}, End: Position{Line: 1, Character: 9}},
				Message:     "unused variable: `x`",
				Severity:    SeverityWarning,
				Source:      DiagnosticSource,
				Replacement: strPtr("_x"),
			},
		}},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSnapshot()))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0", output.Version)
	assert.NotEmpty(t, output.Timestamp)
	assert.Equal(t, JSONSummary{TotalDiagnostics: 2, Errors: 1, Warnings: 1, Files: 2}, output.Summary)

	require.Len(t, output.Files, 2)
	assert.Equal(t, "/crate/src/lib.rs", output.Files[0].File)
	assert.NotNil(t, output.Files[0].Diagnostics, "clean files encode an empty list")
	assert.Empty(t, output.Files[0].Diagnostics)

	mainDiags := output.Files[1].Diagnostics
	require.Len(t, mainDiags, 2)
	assert.Equal(t, JSONDiagnostic{
		StartLine:      4,
		StartCharacter: 2,
		EndLine:        4,
		EndCharacter:   9,
		Severity:       "error",
		Message:        "mismatched types",
		Code:           "E0308",
		Source:         "cargo",
	}, mainDiags[0])
	require.NotNil(t, mainDiags[1].Replacement)
	assert.Equal(t, "_x", *mainDiags[1].Replacement)
}

func TestJSONOutputSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSnapshot()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{"version", "timestamp", "summary", "files"} {
		assert.Contains(t, raw, key)
	}
	summary := raw["summary"].(map[string]any)
	for _, key := range []string{"total_diagnostics", "errors", "warnings", "hints", "files"} {
		assert.Contains(t, summary, key)
	}
	first := raw["files"].([]any)[1].(map[string]any)["diagnostics"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "replacement")
}

func TestWriteOutput_AllFormats(t *testing.T) {
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")

	tests := []struct {
		format   OutputFormat
		contains []string
		excludes []string
	}{
		{
			format:   OutputIssues,
			contains: []string{"src/main.rs:5:3: error: mismatched types [E0308] (cargo)", "2 issues (1 error, 1 warning, 0 hints) in 1 file:"},
		},
		{
			format:   OutputSummary,
			contains: []string{"2 issues", "* src/main.rs: 2"},
			excludes: []string{"mismatched types"},
		},
		{
			format:   OutputJSON,
			contains: []string{`"total_diagnostics": 2`, `"code": "E0308"`},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			WriteOutput(&buf, sampleSnapshot(), tt.format, OutputConfig{BaseDir: "/crate", PrintSourceName: true})
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
