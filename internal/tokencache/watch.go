package tokencache

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the token file for external changes so a login or logout
// completed in another process is picked up by a long-running server without
// a restart. It watches the parent directory because the file is replaced by
// rename on every save. Blocks until ctx is canceled.
func (c *Cache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tokencache: creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("tokencache: watching %s: %w", dir, err)
	}

	c.logger.Debug("watching token file for external changes",
		slog.String("path", c.path),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != filepath.Clean(c.path) {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			c.logger.Info("token file changed externally, reloading",
				slog.String("op", event.Op.String()),
			)
			c.Invalidate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			c.logger.Warn("token file watcher error",
				slog.String("error", err.Error()),
			)
		}
	}
}
