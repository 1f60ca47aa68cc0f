package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/abcscene/internal/fsutil"
)

// watchDelay coalesces the burst of events a single save produces.
const watchDelay = 100 * time.Millisecond

// Watch runs an inspection, then runs it again whenever an archive under the
// configured paths is written, created, removed or renamed, until ctx is
// done. Failed inspections are logged and watching continues.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range a.config.Paths {
		if err := addWatches(watcher, p); err != nil {
			return err
		}
	}
	a.logger.Info("Watching archives for changes.", "paths", a.config.Paths)

	a.runLogged(ctx)

	exts := a.registry.Extensions()
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatches(watcher, event.Name); err != nil {
						a.logger.Warn("Cannot watch new directory.", "path", event.Name, "error", err)
					}
				}
			}
			if !fsutil.HasAnySuffix(event.Name, exts) {
				continue
			}
			a.logger.Debug("Archive changed.", "path", event.Name, "op", event.Op.String())
			pending = time.After(watchDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error.", "error", err)
		case <-pending:
			pending = nil
			a.runLogged(ctx)
		}
	}
}

func (a *App) runLogged(ctx context.Context) {
	if err := a.Run(ctx); err != nil {
		a.logger.Error("Inspection failed.", "error", err)
	}
}

// addWatches watches path, and every directory below it when path is a
// directory. A file is watched through its parent directory so that editors
// replacing the file are still seen.
func addWatches(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
