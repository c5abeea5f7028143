package registry

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// Watch reloads the catalog whenever the backing file changes. It blocks
// until ctx is cancelled. A failed reload keeps the previous catalog and
// is logged, never fatal: sources are immutable during a run, so the next
// run simply picks up whichever catalog loaded last.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a file-level watch.
	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch catalog directory %s: %w", dir, err)
	}

	base := filepath.Base(r.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if reloadErr := r.Reload(); reloadErr != nil {
				r.logger.Warn("Catalog reload failed, keeping previous catalog",
					logger.String("path", r.path),
					logger.Error(reloadErr),
				)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("Catalog watcher error",
				logger.Error(watchErr),
			)
		}
	}
}
