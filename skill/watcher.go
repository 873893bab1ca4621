package skill

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/triage/slogger"
	"github.com/fsnotify/fsnotify"
)

// Watcher re-scans a registry when its skill directories change, so
// manually edited or newly published skills become visible to subsequent
// runs without a restart. In-flight runs are unaffected because they hold
// snapshots.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   slogger.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher over the registry's configured directories.
func NewWatcher(registry *Registry, logger slogger.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slogger.NewDevNullLogger()
	}
	w := &Watcher{
		registry: registry,
		watcher:  fsWatcher,
		logger:   logger,
		debounce: 250 * time.Millisecond,
	}
	for _, dir := range []string{registry.opts.CoreDir, registry.opts.LearnedDir} {
		if dir == "" {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch skills directory", "dir", dir, "error", err)
		}
	}
	return w, nil
}

// Run blocks, rescanning the registry after bursts of filesystem events,
// until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := w.registry.Rescan(); err != nil {
				w.logger.Warn("skill rescan failed", "error", err)
			} else {
				w.logger.Debug("skill registry rescanned after file change")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("skill watcher error", "error", err)
		}
	}
}
