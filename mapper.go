package cargowatch

import "path/filepath"

// MapToDiagnostics converts decoded check messages into diagnostics grouped by
// absolute file path. Failed results and records without a compiler message
// body are skipped. Diagnostics keep span encounter order and are not
// deduplicated.
func MapToDiagnostics(results []ParseResult, projectRoot string) map[string][]Diagnostic {
	byFile := make(map[string][]Diagnostic)
	for _, r := range results {
		if !r.OK() || r.Message.Message == nil {
			continue
		}
		msg := r.Message.Message
		for _, span := range msg.Spans {
			d := spanDiagnostic(msg, span, projectRoot)
			byFile[d.File] = append(byFile[d.File], d)
		}
	}
	return byFile
}

func spanDiagnostic(msg *CompilerMessage, span Span, projectRoot string) Diagnostic {
	d := Diagnostic{
		File:        resolveSpanFile(projectRoot, span.FileName),
		Range:       spanRange(span),
		Message:     spanLabel(msg.Message, span.Label),
		Severity:    spanSeverity(msg.Level, span.IsPrimary),
		Source:      DiagnosticSource,
		Replacement: span.SuggestedReplacement,
	}
	if msg.Code != nil {
		d.Code = msg.Code.Code
	}
	return d
}

// spanSeverity gives primary spans the message's severity; secondary spans are hints
func spanSeverity(level string, primary bool) Severity {
	if !primary {
		return SeverityHint
	}
	if level == "error" {
		return SeverityError
	}
	return SeverityWarning
}

func spanLabel(text string, label *string) string {
	if label == nil {
		return text
	}
	return text + ": " + *label
}

func spanRange(span Span) Range {
	return Range{
		Start: Position{Line: zeroBased(span.LineStart), Character: zeroBased(span.ColumnStart)},
		End:   Position{Line: zeroBased(span.LineEnd), Character: zeroBased(span.ColumnEnd)},
	}
}

func zeroBased(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

func resolveSpanFile(root, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(root, filepath.FromSlash(name))
}
