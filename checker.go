package cargowatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// State is a phase of a check run
type State int

const (
	// StateIdle means no run is in progress.
	StateIdle State = iota
	// StateLocatingRoot walks up from the saved file to the manifest.
	StateLocatingRoot
	// StateChecking runs the checker process and parses its output.
	StateChecking
	// StatePublishing replaces the stored diagnostics and publishes them.
	StatePublishing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocatingRoot:
		return "locating-root"
	case StateChecking:
		return "checking"
	case StatePublishing:
		return "publishing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Publisher pushes one file's diagnostics to the host, replacing whatever was
// shown for that file before. An empty list clears the file.
type Publisher interface {
	Publish(file string, diags []Diagnostic) error
}

// Notifier receives user-visible feedback from the Checker
type Notifier interface {
	Status(state State, text string)
	Warn(text string)
	Error(text string)
}

// Config controls which saves trigger a run and what is executed
type Config struct {
	Command      string   // "cargo"
	Args         []string // ["check", "--message-format=json"]
	ManifestName string   // "Cargo.toml"
	Extension    string   // ".rs"
}

// DefaultConfig returns the cargo check configuration
func DefaultConfig() Config {
	return Config{
		Command:      "cargo",
		Args:         []string{"check", "--message-format=json"},
		ManifestName: DefaultManifestName,
		Extension:    ".rs",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Command == "" {
		c.Command = def.Command
	}
	if c.Args == nil {
		c.Args = def.Args
	}
	if c.ManifestName == "" {
		c.ManifestName = def.ManifestName
	}
	if c.Extension == "" {
		c.Extension = def.Extension
	}
	return c
}

// RunResult summarizes one completed check run
type RunResult struct {
	Generation     uint64
	File           string // The saved file that triggered the run
	Root           string
	Package        string // Manifest display name, if the manifest parsed
	ExitCode       int
	Messages       int // Decoded records
	Skipped        int // Decoded records without a compiler message body
	FailedLines    int
	Diagnostics    int
	FilesPublished int
	Discarded      bool // A newer run had already published
}

// Checker runs the save-triggered pipeline: locate root, run the checker,
// parse, map, and publish. It owns the diagnostic store.
//
// Runs may overlap. Each run takes a generation number when triggered; a run
// that finishes after a newer run has published is discarded.
type Checker struct {
	config    Config
	runner    Runner
	publisher Publisher
	notifier  Notifier
	manifests *ManifestCache
	store     *Store

	generation atomic.Uint64
	publishMu  sync.Mutex
	published  uint64
}

// Option customizes a Checker
type Option func(*Checker)

// WithManifestCache attaches a manifest cache used for status text
func WithManifestCache(cache *ManifestCache) Option {
	return func(c *Checker) { c.manifests = cache }
}

// WithStore replaces the Checker's store
func WithStore(store *Store) Option {
	return func(c *Checker) { c.store = store }
}

// NewChecker creates a Checker. A nil notifier discards feedback.
func NewChecker(config Config, runner Runner, publisher Publisher, notifier Notifier, opts ...Option) *Checker {
	if runner == nil {
		runner = ExecRunner{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	c := &Checker{
		config:    config.withDefaults(),
		runner:    runner,
		publisher: publisher,
		notifier:  notifier,
		store:     NewStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the Checker's diagnostic store
func (c *Checker) Store() *Store {
	return c.store
}

// Config returns the effective configuration
func (c *Checker) Config() Config {
	return c.config
}

// Matches reports whether a saved path triggers a run
func (c *Checker) Matches(path string) bool {
	return strings.HasSuffix(path, c.config.Extension)
}

// OnSave handles a document save. Non-matching paths return (nil, nil) with no
// state change. Root-not-found and spawn failures are reported to the Notifier,
// returned, and leave the published diagnostics untouched.
func (c *Checker) OnSave(ctx context.Context, path string) (*RunResult, error) {
	if !c.Matches(path) {
		return nil, nil
	}
	result := &RunResult{Generation: c.generation.Add(1), File: path}

	c.notifier.Status(StateLocatingRoot, fmt.Sprintf("locating %s for %s", c.config.ManifestName, filepath.Base(path)))
	root, err := FindProjectRoot(path, c.config.ManifestName)
	if err != nil {
		return nil, c.fail(err)
	}
	result.Root = root
	result.Package = c.packageName(root)

	c.notifier.Status(StateChecking, "checking "+result.Package)
	proc, err := c.runner.Run(ctx, c.config.Command, c.config.Args, root)
	if err != nil {
		return nil, c.fail(err)
	}
	result.ExitCode = proc.ExitCode
	parsed := ParseOutput(proc.Stdout)
	for _, r := range parsed {
		switch {
		case !r.OK():
			result.FailedLines++
			c.notifier.Warn(fmt.Sprintf("could not parse checker output line %d: %s", r.Line, r.Raw))
		case r.Message.Message == nil:
			result.Messages++
			result.Skipped++
		default:
			result.Messages++
		}
	}

	c.notifier.Status(StatePublishing, "publishing diagnostics for "+result.Package)
	byFile := MapToDiagnostics(parsed, root)
	for _, diags := range byFile {
		result.Diagnostics += len(diags)
	}
	if err := c.publish(result, byFile); err != nil {
		return result, c.fail(err)
	}

	if result.Discarded {
		c.notifier.Status(StateIdle, "discarded stale results for "+result.Package)
	} else {
		c.notifier.Status(StateIdle, fmt.Sprintf("%s: %d diagnostics in %d files", result.Package, result.Diagnostics, len(byFile)))
	}
	return result, nil
}

func (c *Checker) publish(result *RunResult, byFile map[string][]Diagnostic) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if result.Generation < c.published {
		result.Discarded = true
		return nil
	}
	c.published = result.Generation

	c.store.Clear()
	c.store.Merge(byFile)
	if c.publisher == nil {
		return nil
	}
	var errs []error
	for _, fd := range c.store.Snapshot() {
		if err := c.publisher.Publish(fd.File, fd.Diagnostics); err != nil {
			errs = append(errs, fmt.Errorf("publishing %s: %w", fd.File, err))
			continue
		}
		result.FilesPublished++
	}
	return errors.Join(errs...)
}

func (c *Checker) packageName(root string) string {
	if c.manifests != nil {
		if m, err := c.manifests.Load(filepath.Join(root, c.config.ManifestName)); err == nil {
			return m.DisplayName()
		}
	}
	return filepath.Base(root)
}

func (c *Checker) fail(err error) error {
	c.notifier.Error(err.Error())
	c.notifier.Status(StateIdle, "check failed")
	return err
}

type nopNotifier struct{}

func (nopNotifier) Status(State, string) {}
func (nopNotifier) Warn(string)          {}
func (nopNotifier) Error(string)         {}
