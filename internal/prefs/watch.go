package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces the burst of events produced by an atomic replace.
const watchSettle = 50 * time.Millisecond

// Watch reloads store whenever its file changes on disk and then calls onChange.
// It blocks until ctx is cancelled.
func Watch(ctx context.Context, store *FileStore, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prefs watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(store.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(store.Path())
	logger.Info("prefs watcher started", "path", target)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("prefs watcher stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove) {
				settle = time.After(watchSettle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prefs watcher error", "error", err)
		case <-settle:
			settle = nil
			if err := store.Reload(); err != nil {
				logger.Warn("prefs reload failed", "error", err)
				continue
			}
			logger.Debug("prefs reloaded", "path", target)
			if onChange != nil {
				onChange()
			}
		}
	}
}
