package cargowatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResult is the outcome of decoding one non-empty output line.
// Exactly one of Message and Err is set.
type ParseResult struct {
	Line    int    // 1-based line number in the raw output
	Raw     string // Trimmed line text
	Message *CheckMessage
	Err     error
}

// OK reports whether the line decoded successfully
func (r ParseResult) OK() bool {
	return r.Err == nil && r.Message != nil
}

// ParseOutput decodes newline-delimited JSON records. Every non-empty trimmed
// line yields one result, in input order. A line that fails to decode yields a
// failed result and parsing continues.
func ParseOutput(stdout string) []ParseResult {
	lines := strings.Split(stdout, "\n")
	results := make([]ParseResult, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result := ParseResult{Line: i + 1, Raw: line}
		var msg CheckMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			result.Err = fmt.Errorf("line %d: %w", i+1, err)
		} else {
			result.Message = &msg
		}
		results = append(results, result)
	}
	return results
}

// ParseFailures returns the failed results
func ParseFailures(results []ParseResult) []ParseResult {
	var failed []ParseResult
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
