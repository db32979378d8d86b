package cargowatch

// ReasonCompilerMessage is the only reason whose records carry a Message body
const ReasonCompilerMessage = "compiler-message"

// CheckMessage is one decoded line of `cargo check --message-format=json` output
type CheckMessage struct {
	Reason    string           `json:"reason"`     // "compiler-message", "compiler-artifact", "build-script-executed", "build-finished"
	PackageID string           `json:"package_id"` // "demo 0.1.0 (path+file:///home/me/demo)"
	Target    *Target          `json:"target,omitempty"`
	Message   *CompilerMessage `json:"message,omitempty"`
}

// Target identifies the crate target a message belongs to
type Target struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind,omitempty"` // ["lib"], ["bin"]
	Edition string   `json:"edition"`        // "2021"
	SrcPath string   `json:"src_path"`
}

// CompilerMessage is the rustc diagnostic carried by a compiler-message record
type CompilerMessage struct {
	Message  string            `json:"message"`
	Code     *MessageCode      `json:"code,omitempty"`
	Level    string            `json:"level"` // "error", "warning", "note", "help", "failure-note"
	Spans    []Span            `json:"spans"`
	Children []CompilerMessage `json:"children,omitempty"`
	Rendered *string           `json:"rendered,omitempty"`
}

// MessageCode is the diagnostic code (e.g. E0308) and its long explanation
type MessageCode struct {
	Code        string  `json:"code"`
	Explanation *string `json:"explanation,omitempty"`
}

// Span is one source location annotation within a compiler message.
// Lines and columns are 1-based; the end column is exclusive.
type Span struct {
	FileName                string     `json:"file_name"` // Relative to the project root: "src/main.rs"
	LineStart               int        `json:"line_start"`
	LineEnd                 int        `json:"line_end"`
	ColumnStart             int        `json:"column_start"`
	ColumnEnd               int        `json:"column_end"`
	IsPrimary               bool       `json:"is_primary"`
	Label                   *string    `json:"label,omitempty"`
	SuggestedReplacement    *string    `json:"suggested_replacement,omitempty"`
	SuggestionApplicability *string    `json:"suggestion_applicability,omitempty"` // "MachineApplicable", "MaybeIncorrect", ...
	Expansion               *Expansion `json:"expansion,omitempty"`
}

// Expansion is the macro-expansion trace attached to a span
type Expansion struct {
	Span          Span   `json:"span"`
	MacroDeclName string `json:"macro_decl_name"`
	DefSiteSpan   *Span  `json:"def_site_span,omitempty"`
}
