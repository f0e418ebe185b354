// Package watcher re-triggers token counts when watched files change.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/jbctechsolutions/gtc/internal/infrastructure/filesystem"
)

// EventType represents the type of file system event.
type EventType string

// Event types.
const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
	EventRemove EventType = "remove"
	EventRename EventType = "rename"
)

// Event is a debounced change to a watched file.
type Event struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}

// Config holds configuration for the file watcher.
type Config struct {
	Debounce   time.Duration
	BufferSize int
}

// DefaultConfig returns the settings New uses for zero Config fields.
func DefaultConfig() Config {
	return Config{
		Debounce:   200 * time.Millisecond,
		BufferSize: 100,
	}
}

// Watcher monitors the directories behind a set of file arguments.
// It wraps fsnotify with debouncing and drops events for paths the
// arguments do not select.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    Config
	matcher   *Matcher
	events    chan Event
	errors    chan error

	pending   map[string]pendingEvent
	pendingMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.Mutex
}

type pendingEvent struct {
	eventType EventType
	timestamp time.Time
}

// New creates a watcher for the given file arguments (literal paths or globs).
func New(cfg Config, args []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaults.Debounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		matcher:   NewMatcher(args),
		events:    make(chan Event, cfg.BufferSize),
		errors:    make(chan error, cfg.BufferSize),
		pending:   make(map[string]pendingEvent),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start adds the directories behind the file arguments to the underlying
// watcher and begins emitting events. Directories that do not exist are
// skipped.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	for _, dir := range w.matcher.Dirs() {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.debounceProcessor()

	return nil
}

// Events returns the channel for receiving watch events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.matcher.Match(event.Name) {
				continue
			}

			eventType := convertEventType(event.Op)
			if eventType == "" {
				continue
			}

			w.pendingMu.Lock()
			w.pending[event.Name] = pendingEvent{
				eventType: eventType,
				timestamp: time.Now(),
			}
			w.pendingMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) debounceProcessor() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.emitStableEvents()
		}
	}
}

// emitStableEvents emits events that saw no further activity for the
// debounce window.
func (w *Watcher) emitStableEvents() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	now := time.Now()
	for path, pending := range w.pending {
		if now.Sub(pending.timestamp) < w.config.Debounce {
			continue
		}
		delete(w.pending, path)

		select {
		case w.events <- Event{Path: path, Type: pending.eventType, Timestamp: pending.timestamp}:
		default:
			// Full buffer; a recount is already queued.
		}
	}
}

func convertEventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate
	case op.Has(fsnotify.Write):
		return EventWrite
	case op.Has(fsnotify.Remove):
		return EventRemove
	case op.Has(fsnotify.Rename):
		return EventRename
	default:
		return ""
	}
}

// Matcher decides which changed paths belong to a set of file arguments.
type Matcher struct {
	literals map[string]bool
	patterns []string
}

// NewMatcher builds a matcher from literal paths and glob patterns.
func NewMatcher(args []string) *Matcher {
	m := &Matcher{literals: make(map[string]bool)}
	for _, arg := range args {
		if !filesystem.IsLiteral(arg) {
			m.patterns = append(m.patterns, filepath.Clean(arg))
			continue
		}
		m.literals[filepath.Clean(arg)] = true
	}
	return m
}

// Match reports whether path is one of the literals or matches a pattern.
func (m *Matcher) Match(path string) bool {
	path = filepath.Clean(path)
	if m.literals[path] {
		return true
	}
	for _, pattern := range m.patterns {
		if ok, err := doublestar.PathMatch(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Dirs returns the sorted directories to watch: the parent of each literal,
// and every directory below the static prefix of each pattern.
func (m *Matcher) Dirs() []string {
	seen := make(map[string]bool)

	for lit := range m.literals {
		seen[filepath.Dir(lit)] = true
	}

	for _, pattern := range m.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				seen[path] = true
			}
			return nil
		})
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
