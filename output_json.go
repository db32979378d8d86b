package cargowatch

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Files     []JSONFile  `json:"files"`
}

// JSONSummary contains diagnostic counts
type JSONSummary struct {
	TotalDiagnostics int `json:"total_diagnostics"`
	Errors           int `json:"errors"`
	Warnings         int `json:"warnings"`
	Hints            int `json:"hints"`
	Files            int `json:"files"`
}

// JSONFile is one file's diagnostic list. Clean files have an empty list.
type JSONFile struct {
	File        string           `json:"file"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
}

// JSONDiagnostic represents a single diagnostic with zero-based positions
type JSONDiagnostic struct {
	StartLine      int     `json:"start_line"`
	StartCharacter int     `json:"start_character"`
	EndLine        int     `json:"end_line"`
	EndCharacter   int     `json:"end_character"`
	Severity       string  `json:"severity"`
	Message        string  `json:"message"`
	Code           string  `json:"code,omitempty"`
	Source         string  `json:"source,omitempty"`
	Replacement    *string `json:"replacement,omitempty"`
}

// WriteJSON writes the snapshot as JSON
func WriteJSON(w io.Writer, files []FileDiagnostics) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(files))
}

// buildJSONOutput converts a snapshot to JSONOutput
func buildJSONOutput(files []FileDiagnostics) JSONOutput {
	s := Summarize(files)

	jsonFiles := make([]JSONFile, len(files))
	for i, fd := range files {
		diags := make([]JSONDiagnostic, len(fd.Diagnostics))
		for j, d := range fd.Diagnostics {
			diags[j] = JSONDiagnostic{
				StartLine:      d.Range.Start.Line,
				StartCharacter: d.Range.Start.Character,
				EndLine:        d.Range.End.Line,
				EndCharacter:   d.Range.End.Character,
				Severity:       d.Severity.String(),
				Message:        d.Message,
				Code:           d.Code,
				Source:         d.Source,
				Replacement:    d.Replacement,
			}
		}
		jsonFiles[i] = JSONFile{File: fd.File, Diagnostics: diags}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalDiagnostics: s.Total(),
			Errors:           s.Errors,
			Warnings:         s.Warnings,
			Hints:            s.Hints,
			Files:            s.Files,
		},
		Files: jsonFiles,
	}
}
