package watch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnore lists the patterns skipped when none are configured
var DefaultIgnore = []string{"target/**", ".git/**"}

// Matcher decides which paths under a root are ignored.
//
// Two layers:
//  1. Glob check: doublestar patterns relative to the root
//  2. Gitignore check: the root's .gitignore, when present
type Matcher struct {
	root      string
	patterns  []string
	gitIgnore *ignore.GitIgnore
}

// NewMatcher builds a matcher for root. A missing .gitignore is fine.
func NewMatcher(root string, patterns []string, useGitIgnore bool) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
	}
	m := &Matcher{root: root, patterns: patterns}
	if useGitIgnore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			m.gitIgnore = gi
		}
	}
	return m, nil
}

// Ignored reports whether path should not be watched or reported
func (m *Matcher) Ignored(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == "." {
		return false
	}
	if strings.HasPrefix(rel, "..") {
		return true
	}
	rel = filepath.ToSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return true
	}
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		// a directory pattern like "target/**" also covers "target" itself
		if strings.HasSuffix(p, "/**") && rel == strings.TrimSuffix(p, "/**") {
			return true
		}
	}
	return m.gitIgnore != nil && m.gitIgnore.MatchesPath(rel)
}

// PatternError reports an invalid ignore glob
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q", e.Pattern)
}
