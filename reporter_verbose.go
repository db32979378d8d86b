package cargowatch

import (
	"fmt"
	"io"
)

// VerboseReporter prints run statistics after the diagnostics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs the counters of one check run
func (r *VerboseReporter) PrintStatistics(result *RunResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Check Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------")

	fmt.Fprintf(r.w, "Package:          %s\n", result.Package)
	fmt.Fprintf(r.w, "Project Root:     %s\n", result.Root)
	fmt.Fprintf(r.w, "Run:              #%d\n", result.Generation)
	fmt.Fprintf(r.w, "Exit Code:        %d\n", result.ExitCode)
	fmt.Fprintf(r.w, "Messages:         %d (%d without diagnostics)\n", result.Messages, result.Skipped)
	fmt.Fprintf(r.w, "Diagnostics:      %d\n", result.Diagnostics)
	fmt.Fprintf(r.w, "Files Published:  %d\n", result.FilesPublished)
}

// PrintWarnings lists conditions worth a second look, such as unparseable
// output lines or a discarded run
func (r *VerboseReporter) PrintWarnings(result *RunResult) {
	if result == nil {
		return
	}
	var warnings []string
	if result.FailedLines > 0 {
		warnings = append(warnings, fmt.Sprintf("%s of checker output could not be parsed", pluralizeCount(result.FailedLines, "line", "lines")))
	}
	if result.ExitCode != 0 && result.Diagnostics == 0 {
		warnings = append(warnings, fmt.Sprintf("checker exited with code %d but reported no diagnostics", result.ExitCode))
	}
	if result.Discarded {
		warnings = append(warnings, "results were discarded because a newer run had already published")
	}
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}
