package cargowatch

import "fmt"

// Severity classifies a published diagnostic
type Severity int

// Severity values. The numeric values match the LSP DiagnosticSeverity enum.
const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityHint    Severity = 4
)

// String returns the lowercase severity name
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Position is a zero-based line/character pair
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a zero-based half-open range: Start inclusive, End exclusive
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is one positioned record published for a file
type Diagnostic struct {
	File        string   `json:"file"`                  // "/home/me/crate/src/lib.rs" (absolute)
	Range       Range    `json:"range"`                 // zero-based
	Message     string   `json:"message"`               // "mismatched types: expected `u32`"
	Severity    Severity `json:"severity"`              // SeverityError, SeverityWarning, SeverityHint
	Code        string   `json:"code,omitempty"`        // "E0308"
	Source      string   `json:"source,omitempty"`      // "cargo"
	Replacement *string  `json:"replacement,omitempty"` // Suggested replacement text, if the compiler offered one
}

// FileDiagnostics is the published diagnostic list for one file
type FileDiagnostics struct {
	File        string
	Diagnostics []Diagnostic
}

// DiagnosticSource is the Source stamped on every mapped diagnostic
const DiagnosticSource = "cargo"
