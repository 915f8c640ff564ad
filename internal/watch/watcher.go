// Package watch re-runs an action whenever a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/pktsep/pkg/log"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 250 * time.Millisecond

// Config holds configuration options for a Watcher.
type Config struct {
	// Path is the file to watch. Its parent directory is watched so that
	// editors replacing the file by rename are noticed.
	Path string

	// Debounce is the quiet period after the last event before the action runs.
	Debounce time.Duration
}

// Watcher runs an action after the watched file is written or recreated.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
}

// New creates a Watcher.
func New(cfg Config, logger log.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:     filepath.Clean(cfg.Path),
		debounce: cfg.Debounce,
		logger:   logger,
	}
}

// Run blocks until ctx is done, calling action once per burst of changes.
// Errors from action are logged and do not stop the watcher. Calls to action
// never overlap.
func (w *Watcher) Run(ctx context.Context, action func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching for changes", log.String("path", w.path))

	var running sync.Mutex
	fire := func() {
		running.Lock()
		defer running.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := action(ctx); err != nil {
			w.logger.Error("action failed", log.String("path", w.path), log.Err(err))
		}
	}

	defer w.wg.Wait()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("file changed", log.String("op", event.Op.String()))
			w.schedule(fire)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(fire func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		fire()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
}
