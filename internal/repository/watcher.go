package repository

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the vault root and keeps the index in
// step with external edits until ctx is cancelled. The note files are
// human-editable outside the process, so live drift correction complements
// the explicit RebuildIndex repair path.
//
// Rename events fire on the old path only; the new path arrives as a
// separate Create event. A short debounced Sync pass catches stragglers.
func Watch(ctx context.Context, repo *Repository, vaultRoot string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(200 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if err := repo.Sync(); err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".md") {
				// A new subdirectory is unexpected in a flat vault but
				// harmless; fold it into the next sync pass.
				if ev.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
						scheduleSync()
					}
				}
				continue
			}
			id := strings.TrimSuffix(name, ".md")

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := repo.ReindexFile(id); err != nil {
					logger.Warn("watcher: reindex failed", slog.String("id", id), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: indexed", slog.String("id", id))

			case ev.Op&fsnotify.Remove != 0:
				if err := repo.DropFromIndex(id); err != nil {
					logger.Warn("watcher: delete failed", slog.String("id", id), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("id", id))

			case ev.Op&fsnotify.Rename != 0:
				if err := repo.DropFromIndex(id); err != nil {
					logger.Warn("watcher: rename delete failed", slog.String("id", id), slog.String("error", err.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("id", id))
				}
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
