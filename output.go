package cargowatch

import (
	"io"
	"os"
)

// OutputFormat represents the terminal output format
type OutputFormat string

const (
	// OutputIssues shows diagnostics in golangci-lint format followed by a short summary
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows counts per severity and per file only
	OutputSummary OutputFormat = "summary"
	// OutputJSON exports structured data in JSON format (tooling integration)
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from the flag value.
// Unknown or empty values fall back to OutputIssues.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "summary":
		return OutputSummary
	case "json":
		return OutputJSON
	default:
		return OutputIssues
	}
}

// WriteOutput writes a diagnostic snapshot in the specified format
func WriteOutput(w io.Writer, files []FileDiagnostics, format OutputFormat, config OutputConfig) {
	switch format {
	case OutputSummary:
		NewReporter(w, config).PrintSummary(files)

	case OutputJSON:
		if err := WriteJSON(w, files); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	default:
		reporter := NewReporter(w, config)
		reporter.PrintDiagnostics(files)
		reporter.PrintSummary(files)
	}
}
