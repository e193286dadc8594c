package themefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
)

// DefaultDebounce coalesces bursts of writes from editors and git checkouts.
const DefaultDebounce = 50 * time.Millisecond

// Invalidator drops memoized resolutions for a component path prefix.
type Invalidator interface {
	Invalidate(ctx context.Context, prefix string) int
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(logger ports.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnInvalidate is called after each invalidation with the prefix and the
// number of dropped entries.
func WithOnInvalidate(fn func(prefix string, dropped int)) WatcherOption {
	return func(w *Watcher) { w.onInvalidate = fn }
}

// Watcher invalidates section resolutions when definitions under the themes
// directory change on disk.
type Watcher struct {
	root         string
	invalidator  Invalidator
	logger       ports.Logger
	debounce     time.Duration
	onInvalidate func(prefix string, dropped int)

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]*time.Timer
	timers  sync.WaitGroup
	done    chan struct{}
	err     error
}

// NewWatcher returns a watcher over root. Call Start to begin watching.
func NewWatcher(root string, invalidator Invalidator, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		root:        root,
		invalidator: invalidator,
		logger:      logginginfra.NewNoOpLogger(),
		debounce:    DefaultDebounce,
		pending:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "watcher")
	return w
}

// Start registers every directory below root and processes events until ctx
// is cancelled. It returns once the watches are in place.
func (w *Watcher) Start(ctx context.Context) error {
	if w.fsw != nil {
		return errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addRecursive(fsw, w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	go w.run(ctx)
	w.logger.Info(ctx, "watching section definitions", "root", w.root)
	return nil
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Err reports why the event loop exited, if it failed.
func (w *Watcher) Err() error {
	<-w.done
	return w.err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.timers.Wait()
	defer w.stopPending()
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				w.err = errors.New("watcher events channel closed")
				return
			}
			w.handle(ctx, event)
		case werr, ok := <-w.fsw.Errors:
			if !ok {
				w.err = errors.New("watcher errors channel closed")
				return
			}
			w.logger.Error(ctx, "fsnotify error", "error", werr)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := statDir(event.Name); err == nil && info {
			if err := addRecursive(w.fsw, event.Name); err != nil {
				w.logger.Warn(ctx, "failed to watch new directory", "path", event.Name, "error", err)
			}
			// Definitions written before the watch was added produce no event.
			existing, _ := doublestar.Glob(os.DirFS(event.Name), "**/*"+DefinitionSuffix)
			for _, match := range existing {
				w.handle(ctx, fsnotify.Event{Name: filepath.Join(event.Name, filepath.FromSlash(match)), Op: fsnotify.Write})
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if ok, _ := doublestar.Match("**/*"+DefinitionSuffix, rel); !ok {
		return
	}

	prefix := filepath.ToSlash(filepath.Dir(rel))
	w.logger.Debug(ctx, "definition changed", "path", rel, "op", event.Op.String())
	w.schedule(ctx, prefix)
}

func (w *Watcher) schedule(ctx context.Context, prefix string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[prefix]; ok {
		if timer.Stop() {
			timer.Reset(w.debounce)
			return
		}
	}

	w.timers.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		defer w.timers.Done()
		w.mu.Lock()
		if w.pending[prefix] == timer {
			delete(w.pending, prefix)
		}
		w.mu.Unlock()
		w.fire(ctx, prefix)
	})
	w.pending[prefix] = timer
}

func (w *Watcher) fire(ctx context.Context, prefix string) {
	if ctx.Err() != nil {
		return
	}
	dropped := w.invalidator.Invalidate(context.WithoutCancel(ctx), prefix)
	w.logger.Info(ctx, "section resolutions invalidated", "path_prefix", prefix, "dropped", dropped)
	if w.onInvalidate != nil {
		w.onInvalidate(prefix, dropped)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for prefix, timer := range w.pending {
		if timer.Stop() {
			w.timers.Done()
		}
		delete(w.pending, prefix)
	}
}

func statDir(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
