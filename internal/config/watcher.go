package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/52North/SOS-sub013/internal/observability"
)

// LoadFunc loads the document stored at path.
type LoadFunc[T any] func(path string) (T, error)

// WatcherOption configures a Watcher.
type WatcherOption func(*watcherOptions)

type watcherOptions struct {
	logger   observability.Logger
	debounce time.Duration
}

// WithDebounceDelay sets how long the watcher waits for a burst of file
// events to settle before reloading.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(o *watcherOptions) {
		o.debounce = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(o *watcherOptions) {
		o.logger = logger
	}
}

// Watcher keeps the last good version of a file-backed document and calls
// onChange after every successful reload. A document that fails to load is
// logged and the previous version stays current.
type Watcher[T any] struct {
	path     string
	load     LoadFunc[T]
	onChange func(T)
	opts     watcherOptions

	fs   *fsnotify.Watcher
	mu   sync.RWMutex
	last T

	stop    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
}

// NewWatcher creates a watcher for path. Nothing is read before Start.
func NewWatcher[T any](path string, load LoadFunc[T], onChange func(T), opts ...WatcherOption) (*Watcher[T], error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher[T]{
		path:     abs,
		load:     load,
		onChange: onChange,
		opts: watcherOptions{
			logger:   observability.NopLogger(),
			debounce: DefaultWatchDebounce,
		},
		fs:   fs,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&w.opts)
	}
	return w, nil
}

// Start loads the document and watches the file until ctx is done or Stop
// is called.
func (w *Watcher[T]) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	doc, err := w.load(w.path)
	if err != nil {
		return err
	}
	// Editors replace files on save, so the directory is watched.
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.last = doc
	w.started = true
	go w.run(ctx)

	w.opts.logger.Info("watching file", observability.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the watch loop to exit. Stop may be
// called more than once.
func (w *Watcher[T]) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	close(w.stop)
	if started {
		<-w.done
	}
	return w.fs.Close()
}

// Last returns the last successfully loaded document.
func (w *Watcher[T]) Last() T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.opts.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				timer.Reset(w.opts.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.opts.logger.Error("file watcher error", observability.Error(err))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher[T]) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	w.opts.logger.Debug("watched file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)
	return true
}

func (w *Watcher[T]) reload() {
	doc, err := w.load(w.path)
	if err != nil {
		w.opts.logger.Error("failed to reload file, keeping previous version",
			observability.String("path", w.path),
			observability.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.last = doc
	w.mu.Unlock()

	w.opts.logger.Info("file reloaded", observability.String("path", w.path))
	if w.onChange != nil {
		w.onChange(doc)
	}
}
