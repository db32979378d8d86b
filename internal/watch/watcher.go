// Package watch turns filesystem writes under a project tree into debounced
// save events.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a write counts as a save
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher
type Options struct {
	Root         string
	Ignore       []string      // doublestar patterns relative to Root (default: DefaultIgnore)
	Debounce     time.Duration // default: DefaultDebounce
	UseGitIgnore bool
	OnError      func(error) // watcher errors, nil to drop them
}

// Handler is called once per debounced save. Calls may run concurrently.
type Handler func(ctx context.Context, path string)

// Watcher watches a directory tree recursively
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	matcher  *Matcher
	debounce time.Duration
	onError  func(error)

	mu     sync.Mutex
	timers map[string]*time.Timer
	saves  chan string
	done   chan struct{}
	once   sync.Once
}

// New creates a Watcher and registers every non-ignored directory under root
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}
	patterns := opts.Ignore
	if patterns == nil {
		patterns = DefaultIgnore
	}
	matcher, err := NewMatcher(root, patterns, opts.UseGitIgnore)
	if err != nil {
		return nil, err
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		root:     root,
		matcher:  matcher,
		debounce: debounce,
		onError:  opts.OnError,
		timers:   make(map[string]*time.Timer),
		saves:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory
func (w *Watcher) Root() string {
	return w.root
}

// WatchList returns the registered directories
func (w *Watcher) WatchList() []string {
	return w.fs.WatchList()
}

// Run dispatches save events to handle until ctx is done. It waits for
// in-flight handlers before returning.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		case path := <-w.saves:
			wg.Add(1)
			go func() {
				defer wg.Done()
				handle(ctx, path)
			}()
		}
	}
}

// Close releases the underlying watcher
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.done) })
	w.stopTimers()
	return w.fs.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.matcher.Ignored(event.Name) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.reportError(err)
			}
			return
		}
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		w.schedule(event.Name)
	}
}

// schedule restarts the debounce timer for path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.saves <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.matcher.Ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
