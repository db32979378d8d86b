package cargowatch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCaretIndicator(t *testing.T) {
	reporter := &Reporter{}

	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{
			name:       "spaces only",
			sourceLine: "    let x = 1;",
			column:     9,
			want:       "        ^", // 8 spaces + caret
		},
		{
			name:       "tabs and spaces",
			sourceLine: "\t\tlet y = x;",
			column:     7,
			want:       "\t\t    ^",
		},
		{
			name:       "wide characters",
			sourceLine: `let s = "日本"; s.foo();`,
			column:     15,
			want:       "                ^", // two wide runes count twice
		},
		{
			name:       "start of line",
			sourceLine: "fn main() {",
			column:     1,
			want:       "^",
		},
		{
			name:       "column 0 fallback",
			sourceLine: "some line",
			column:     0,
			want:       "^",
		},
		{
			name:       "column beyond line length",
			sourceLine: "short",
			column:     100,
			want:       "     ^", // Pads to line length only
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reporter.buildCaretIndicator(tt.sourceLine, tt.column)
			require.Equal(t, tt.want, got)
		})
	}
}

func writeSource(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func plainReporter(buf *bytes.Buffer, config OutputConfig) *Reporter {
	r := NewReporter(buf, config)
	r.useColors = false
	return r
}

func TestPrintDiagnostics(t *testing.T) {
	root := t.TempDir()
	mainRS := writeSource(t, root, "src/main.rs", "fn main() {\n    let x = 1;\n    let y: u32 = \"a\";\n}\n")

	files := []FileDiagnostics{{
		File: mainRS,
		Diagnostics: []Diagnostic{
			{
				File:     mainRS,
				Range:    Range{Start: Position{Line: 2, Character: 17}, End: Position{Line: 2, Character: 20}},
				Message:  "mismatched types",
				Severity: SeverityError,
				Code:     "E0308",
				Source:   DiagnosticSource,
			},
			{
				File:     mainRS,
				Range:    Range{Start: Position{Line: 1, Character: 8}, End: Position{Line: 1, Character: 9}},
				Message:  "unused variable: `x`",
				Severity: SeverityWarning,
				Source:   DiagnosticSource,
			},
			{
				File:     mainRS,
				Range:    Range{Start: Position{Line: 0, Character: 0}},
				Message:  "note only",
				Severity: SeverityHint,
				Source:   DiagnosticSource,
			},
		},
	}}

	var buf bytes.Buffer
	plainReporter(&buf, OutputConfig{BaseDir: root, PrintLines: true, PrintSourceName: true}).PrintDiagnostics(files)

	want := "src/main.rs:2:9: warning: unused variable: `x` (cargo)\n" +
		"\t    let x = 1;\n" +
		"\t        ^\n" +
		"src/main.rs:3:18: error: mismatched types [E0308] (cargo)\n" +
		"\t    let y: u32 = \"a\";\n" +
		"\t                 ^\n"
	assert.Equal(t, filepath.FromSlash(want), buf.String())
}

func TestPrintDiagnostics_Options(t *testing.T) {
	root := t.TempDir()
	mainRS := writeSource(t, root, "main.rs", "fn main() {}\n")
	files := []FileDiagnostics{{
		File: mainRS,
		Diagnostics: []Diagnostic{
			{File: mainRS, Message: "see here", Severity: SeverityHint, Source: DiagnosticSource},
		},
	}}

	var buf bytes.Buffer
	plainReporter(&buf, OutputConfig{BaseDir: root, ShowHints: true}).PrintDiagnostics(files)
	assert.Equal(t, "main.rs:1:1: hint: see here\n", buf.String())

	buf.Reset()
	plainReporter(&buf, OutputConfig{BaseDir: root}).PrintDiagnostics(files)
	assert.Empty(t, buf.String())
}

func TestPrintDiagnostics_MissingSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.rs")
	files := []FileDiagnostics{{
		File:        missing,
		Diagnostics: []Diagnostic{{File: missing, Message: "oops", Severity: SeverityError}},
	}}

	var buf bytes.Buffer
	plainReporter(&buf, OutputConfig{PrintLines: true}).PrintDiagnostics(files)
	assert.Equal(t, missing+":1:1: error: oops\n", buf.String())
}

func TestPrintSummary(t *testing.T) {
	files := []FileDiagnostics{
		{File: "/crate/src/lib.rs"},
		{File: "/crate/src/main.rs", Diagnostics: []Diagnostic{
			{Severity: SeverityError},
			{Severity: SeverityWarning},
			{Severity: SeverityWarning},
		}},
	}

	var buf bytes.Buffer
	plainReporter(&buf, OutputConfig{BaseDir: "/crate"}).PrintSummary(files)
	assert.Equal(t, "\n3 issues (1 error, 2 warnings, 0 hints) in 1 file:\n* "+filepath.FromSlash("src/main.rs")+": 3\n", buf.String())

	buf.Reset()
	plainReporter(&buf, OutputConfig{}).PrintSummary([]FileDiagnostics{{File: "/crate/src/lib.rs"}})
	assert.Equal(t, "\n0 issues.\n", buf.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]FileDiagnostics{
		{File: "a", Diagnostics: []Diagnostic{{Severity: SeverityHint}, {Severity: SeverityError}}},
		{File: "b"},
	})
	assert.Equal(t, Summary{Errors: 1, Hints: 1, Files: 2, FilesWithIssues: 1}, s)
	assert.Equal(t, 2, s.Total())
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")
	assert.True(t, shouldUseColors(OutputConfig{UseColors: true}))

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, shouldUseColors(OutputConfig{}))
}
