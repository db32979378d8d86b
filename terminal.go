package cargowatch

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Collection is an in-memory host diagnostic collection. Each Publish replaces
// the list shown for that file.
type Collection struct {
	mu      sync.Mutex
	files   map[string][]Diagnostic
	updates int
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{files: make(map[string][]Diagnostic)}
}

// Publish implements Publisher
func (c *Collection) Publish(file string, diags []Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[file] = append([]Diagnostic(nil), diags...)
	c.updates++
	return nil
}

// Snapshot returns the published lists sorted by path
func (c *Collection) Snapshot() []FileDiagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FileDiagnostics, 0, len(c.files))
	for file, diags := range c.files {
		out = append(out, FileDiagnostics{File: file, Diagnostics: append([]Diagnostic(nil), diags...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Updates reports how many Publish calls were made
func (c *Collection) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// StreamNotifier writes status, warning and error lines to a writer
type StreamNotifier struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
	verbose   bool
	now       func() time.Time
}

// NewStreamNotifier creates a notifier. Status lines other than the final idle
// line are only written when verbose is set.
func NewStreamNotifier(w io.Writer, useColors, verbose bool) *StreamNotifier {
	return &StreamNotifier{w: w, useColors: useColors, verbose: verbose, now: time.Now}
}

// Status implements Notifier
func (n *StreamNotifier) Status(state State, text string) {
	if state != StateIdle && !n.verbose {
		return
	}
	n.printf("%s %s\n",
		RenderStyle(StyleGray, fmt.Sprintf("[%s %s]", n.now().Format("15:04:05"), state), n.useColors),
		text)
}

// Warn implements Notifier
func (n *StreamNotifier) Warn(text string) {
	n.printf("%s %s\n", RenderStyle(StyleYellow, "warning:", n.useColors), text)
}

// Error implements Notifier
func (n *StreamNotifier) Error(text string) {
	n.printf("%s %s\n", RenderStyle(StyleRed, "error:", n.useColors), text)
}

func (n *StreamNotifier) printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, format, args...)
}
