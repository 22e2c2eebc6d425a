// Package watch processes ALE files as they are dropped into a folder.
//
// Editors and copy tools often write a file in several chunks, so each file
// must stay quiet for a debounce period before its handler runs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/pkg/ale"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/logging"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Watcher watches a directory and hands settled files to a Handler.
// Handler calls never overlap.
type Watcher struct {
	dir      string
	handler  Handler
	filter   func(string) bool
	debounce time.Duration
	logger   *zerolog.Logger

	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopping bool

	handlerMu sync.Mutex
	wg        sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithFilter replaces the default filter, which accepts ALE files.
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.filter = fn
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for dir.
func New(dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		handler:  handler,
		filter:   ale.IsALEFile,
		debounce: constants.WatchDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.Default()
	}
	return w
}

// Run watches until ctx is cancelled, then waits for running handlers and
// returns nil. Setup failures are returned immediately.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.mu.Lock()
	w.stopping = false
	w.mu.Unlock()
	w.logger.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("Watching for ALE files")

	defer w.wait()
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.filter(event.Name) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Watcher detected change")
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopping {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		// a stopped timer may still fire after its replacement was stored
		if w.timers[path] != timer || w.stopping || ctx.Err() != nil {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		w.handle(ctx, path)
	})
	w.timers[path] = timer
}

func (w *Watcher) handle(ctx context.Context, path string) {
	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()

	logger := w.logger.With().Str("file", filepath.Base(path)).Logger()
	ctx = logging.WithLogger(ctx, &logger)
	if err := w.handler(ctx, path); err != nil {
		logger.Error().Err(err).Msg("Failed to process dropped file")
		return
	}
	logger.Info().Msg("Processed dropped file")
}

// stopTimers cancels pending timers. Once it returns no new handler call
// can start.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopping = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) wait() {
	w.stopTimers()
	w.wg.Wait()
}
