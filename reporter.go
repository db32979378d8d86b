package cargowatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// OutputConfig controls terminal rendering
type OutputConfig struct {
	BaseDir         string // Paths are printed relative to this directory when possible
	UseColors       bool   // Force color output
	PrintLines      bool   // Show source lines with a caret under each diagnostic
	PrintSourceName bool   // Show the (cargo) suffix
	ShowHints       bool   // Include hint-level diagnostics
}

// Reporter handles formatting and outputting diagnostics
type Reporter struct {
	w          io.Writer
	config     OutputConfig
	useColors  bool
	sourceRead func(string) ([]byte, error)
	sources    map[string][]string
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(w io.Writer, config OutputConfig) *Reporter {
	return &Reporter{
		w:          w,
		config:     config,
		useColors:  shouldUseColors(config),
		sourceRead: os.ReadFile,
		sources:    make(map[string][]string),
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(config OutputConfig) bool {
	// Explicit flag wins
	if config.UseColors {
		return true
	}

	// FORCE_COLOR is honored by GitHub Actions and most CI systems
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintDiagnostics outputs every diagnostic in golangci-lint format, ordered
// by file, line and column.
func (r *Reporter) PrintDiagnostics(files []FileDiagnostics) {
	var all []Diagnostic
	for _, fd := range files {
		for _, d := range fd.Diagnostics {
			if d.Severity == SeverityHint && !r.config.ShowHints {
				continue
			}
			all = append(all, d)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		if all[i].Range.Start.Line != all[j].Range.Start.Line {
			return all[i].Range.Start.Line < all[j].Range.Start.Line
		}
		return all[i].Range.Start.Character < all[j].Range.Start.Character
	})
	for _, d := range all {
		r.printDiagnostic(d)
	}
}

// printDiagnostic formats one diagnostic: file:line:col: severity: message [code] (cargo)
func (r *Reporter) printDiagnostic(d Diagnostic) {
	location := fmt.Sprintf("%s:%d:%d:", r.displayPath(d.File), d.Range.Start.Line+1, d.Range.Start.Character+1)

	text := d.Message
	if d.Code != "" {
		text += " [" + d.Code + "]"
	}
	sourceSuffix := ""
	if r.config.PrintSourceName && d.Source != "" {
		sourceSuffix = fmt.Sprintf(" (%s)", d.Source)
	}

	fmt.Fprintf(r.w, "%s %s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		RenderStyle(severityStyle(d.Severity), d.Severity.String()+":", r.useColors),
		text,
		RenderStyle(StyleGray, sourceSuffix, r.useColors))

	if !r.config.PrintLines {
		return
	}
	line, ok := r.sourceLine(d.File, d.Range.Start.Line)
	if !ok {
		return
	}
	fmt.Fprintf(r.w, "\t%s\n", line)
	caret := r.buildCaretIndicator(line, d.Range.Start.Character+1)
	fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
}

// buildCaretIndicator creates the "^" indicator aligned with the 1-based column.
// Tabs are kept so the caret lines up with the printed source line, and wide
// characters take their display width.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	runes := []rune(sourceLine)
	prefixLen := column - 1
	if prefixLen > len(runes) {
		prefixLen = len(runes)
	}

	var padding strings.Builder
	for _, ch := range runes[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
			continue
		}
		padding.WriteString(strings.Repeat(" ", runewidth.RuneWidth(ch)))
	}
	return padding.String() + "^"
}

func (r *Reporter) sourceLine(file string, line int) (string, bool) {
	lines, ok := r.sources[file]
	if !ok {
		data, err := r.sourceRead(file)
		if err != nil {
			r.sources[file] = nil
			return "", false
		}
		lines = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		r.sources[file] = lines
	}
	if line < 0 || line >= len(lines) {
		return "", false
	}
	return lines[line], true
}

func (r *Reporter) displayPath(file string) string {
	if r.config.BaseDir == "" {
		return file
	}
	rel, err := filepath.Rel(r.config.BaseDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

// PrintSummary outputs the diagnostic count summary
func (r *Reporter) PrintSummary(files []FileDiagnostics) {
	s := Summarize(files)

	fmt.Fprintln(r.w, "")
	if s.Total() == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "0 issues.", r.useColors))
		return
	}
	fmt.Fprintf(r.w, "%s (%s, %s, %s) in %s:\n",
		pluralizeCount(s.Total(), "issue", "issues"),
		pluralizeCount(s.Errors, "error", "errors"),
		pluralizeCount(s.Warnings, "warning", "warnings"),
		pluralizeCount(s.Hints, "hint", "hints"),
		pluralizeCount(s.FilesWithIssues, "file", "files"))

	for _, fd := range files {
		if len(fd.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(r.w, "* %s: %d\n", r.displayPath(fd.File), len(fd.Diagnostics))
	}
}

// Summary counts diagnostics by severity
type Summary struct {
	Errors          int
	Warnings        int
	Hints           int
	Files           int
	FilesWithIssues int
}

// Total returns the number of diagnostics
func (s Summary) Total() int {
	return s.Errors + s.Warnings + s.Hints
}

// Summarize counts diagnostics in a snapshot
func Summarize(files []FileDiagnostics) Summary {
	s := Summary{Files: len(files)}
	for _, fd := range files {
		if len(fd.Diagnostics) > 0 {
			s.FilesWithIssues++
		}
		for _, d := range fd.Diagnostics {
			switch d.Severity {
			case SeverityError:
				s.Errors++
			case SeverityWarning:
				s.Warnings++
			default:
				s.Hints++
			}
		}
	}
	return s
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
