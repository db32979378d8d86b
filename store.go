package cargowatch

import (
	"sort"
	"sync"
)

// Store holds the current diagnostics per absolute file path. Files stay in
// the store once seen so that a clean run republishes them as empty.
type Store struct {
	mu    sync.Mutex
	files map[string][]Diagnostic
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{files: make(map[string][]Diagnostic)}
}

// Clear truncates every file's diagnostics in place. Keys are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for file, diags := range s.files {
		s.files[file] = diags[:0]
	}
}

// Merge appends diagnostics to each file's list
func (s *Store) Merge(byFile map[string][]Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for file, diags := range byFile {
		s.files[file] = append(s.files[file], diags...)
	}
}

// Snapshot returns a copy of every file's diagnostics, sorted by path
func (s *Store) Snapshot() []FileDiagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FileDiagnostics, 0, len(s.files))
	for file, diags := range s.files {
		out = append(out, FileDiagnostics{
			File:        file,
			Diagnostics: append([]Diagnostic(nil), diags...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Get returns a copy of the diagnostics for one file
func (s *Store) Get(file string) ([]Diagnostic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diags, ok := s.files[file]
	if !ok {
		return nil, false
	}
	return append([]Diagnostic(nil), diags...), true
}

// Len reports the number of tracked files
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
