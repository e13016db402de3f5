// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns select the files whose changes trigger OnChange. They are
		// doublestar globs relative to BaseDir; empty matches every file.
		Patterns []string
		// Ignore adds patterns to the built-in ignore list.
		Ignore []string
		// Debounce is the quiet period after the last event before
		// OnChange fires.
		Debounce time.Duration
		// BaseDir is the watched tree; empty means the current directory.
		BaseDir string
		// OnChange receives the changed paths, relative to BaseDir and sorted.
		// Calls never overlap.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *log.Logger
	}

	// Watcher re-runs a callback when matching files below BaseDir change.
	Watcher struct {
		onChange func(ctx context.Context, changed []string) error
		fsw      *fsnotify.Watcher
		match    *matcher
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}

	// batch collects changed paths until the debounce timer fires.
	batch struct {
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under BaseDir.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	m, err := newMatcher(cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		onChange: cfg.OnChange,
		fsw:      fsw,
		match:    m,
		logger:   cfg.Logger,
		debounce: cfg.Debounce,
		baseDir:  absBase,
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.addTree(absBase); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is canceled, which is a clean
// exit. It fails on a fatal watcher error. A change arriving while the
// callback still runs is kept and delivered once the callback returns.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing watcher", "err", err)
		}
	}()

	b := &batch{pending: make(map[string]struct{})}
	defer b.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}
			if !w.match.matches(rel) {
				continue
			}
			b.add(rel, w.debounce, func() { w.fire(ctx, b) })

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

func (w *Watcher) fire(ctx context.Context, b *batch) {
	if ctx.Err() != nil {
		return
	}
	if !b.busy.CompareAndSwap(false, true) {
		w.logger.Debug("previous run still in progress, postponing")
		b.rearm(w.debounce)
		return
	}
	defer b.busy.Store(false)

	changed := b.drain()
	if len(changed) == 0 || w.onChange == nil {
		return
	}
	w.logger.Debug("files changed", "paths", changed)
	if err := w.onChange(ctx, changed); err != nil {
		w.logger.Error("run after change failed", "err", err)
	}
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return nil //nolint:nilerr // unrelatable paths are skipped
		}
		if w.match.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.match.ignoredDir(rel) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watching new directory", "path", path, "err", err)
	}
}

func (b *batch) add(rel string, debounce time.Duration, fire func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[rel] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(debounce, fire)
	} else {
		b.timer.Reset(debounce)
	}
}

func (b *batch) rearm(debounce time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Reset(debounce)
	}
}

func (b *batch) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	return changed
}

func (b *batch) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
}
