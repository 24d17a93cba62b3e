// Package watch reloads the settings document when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rbright/gavpi/internal/settings"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Reloader is the part of *settings.Store the watcher drives.
type Reloader interface {
	Path() string
	Load() error
	Record() settings.Record
}

// ReloadFunc receives the record after each reload along with the load error, if any.
type ReloadFunc func(settings.Record, error)

// Run watches the directory holding store.Path() and reloads the store after
// the settings file is written, created, renamed, or removed. The store is
// only touched from the calling goroutine. Run returns when ctx is done.
func Run(ctx context.Context, store Reloader, debounce time.Duration, onReload ReloadFunc) error {
	path, err := filepath.Abs(store.Path())
	if err != nil {
		return fmt.Errorf("resolve settings path: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !relevant(event.Op) {
				continue
			}
			timer.Reset(debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %q: %w", dir, werr)
		case <-timer.C:
			loadErr := store.Load()
			if onReload != nil {
				onReload(store.Record(), loadErr)
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
