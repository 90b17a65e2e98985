package policy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a policy store when its backing file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
}

// NewWatcher creates a file watcher over the store's backing file.
func NewWatcher(store *Store) (*Watcher, error) {
	if store.path == "" {
		return nil, fmt.Errorf("policy: store has no backing file to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("policy: create file watcher: %w", err)
	}
	if err := w.Add(store.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("policy: watch %q: %w", store.path, err)
	}
	return &Watcher{watcher: w, store: store}, nil
}

// Run watches for writes and reloads the store. Blocks until ctx is
// cancelled. A failed reload keeps the previous document and is reported
// to stderr.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := w.store.Reload(); err != nil {
						fmt.Fprintf(os.Stderr, "policy hot-reload failed: %v\n", err)
					} else {
						fmt.Fprintf(os.Stderr, "policy hot-reload: document replaced (%s)\n", w.store.Hash())
					}
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "policy watcher error: %v\n", err)
		}
	}
}
