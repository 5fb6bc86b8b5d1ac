package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange once the module directories have been quiet for
// debounce after a change. New subfolders are watched as they appear. It
// blocks until ctx is done.
//
// The plugin runtime caches modules by path, so a rebuilt file must get a new
// name to be picked up.
func Watch(ctx context.Context, logger *slog.Logger, debounce time.Duration, onChange func(context.Context), dirs ...string) error {
	w, err := newWatcher(dirs)
	if err != nil {
		return err
	}
	defer w.Close()
	return watchLoop(ctx, w, logger, debounce, onChange, dirs)
}

func newWatcher(dirs []string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, logger *slog.Logger, debounce time.Duration, onChange func(context.Context), dirs []string) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && isTopLevel(event.Name, dirs) {
					if err := w.Add(event.Name); err != nil {
						logger.Warn("Failed to watch new folder", "path", event.Name, "err", err)
					}
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("Module directory changed", "path", event.Name, "op", event.Op.String())
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", err)

		case <-timer.C:
			onChange(ctx)
		}
	}
}

// isTopLevel reports whether path sits directly inside one of roots.
func isTopLevel(path string, roots []string) bool {
	parent := filepath.Clean(filepath.Dir(path))
	for _, r := range roots {
		if filepath.Clean(r) == parent {
			return true
		}
	}
	return false
}
