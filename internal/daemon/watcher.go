package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 250 * time.Millisecond

// ConfigWatcher reports edits of the config file. Editors that save by
// renaming a temp file over the original are handled by watching the
// directory.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	target  string
	logger  *slog.Logger
}

// NewConfigWatcher watches path and its directory.
func NewConfigWatcher(path string, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	full, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	full = filepath.Clean(full)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(full)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}
	if err := w.Add(full); err != nil {
		logger.Debug("unable to watch config file directly", "error", err)
	}
	return &ConfigWatcher{watcher: w, target: full, logger: logger}, nil
}

// Run calls onChange once per burst of writes, until ctx is cancelled.
func (cw *ConfigWatcher) Run(ctx context.Context, onChange func()) {
	defer cw.watcher.Close()
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				// Reset discards a pending expiry on Go 1.23 timers.
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			cw.logger.Info("config file updated", "path", cw.target)
			onChange()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", "error", err)
		}
	}
}
