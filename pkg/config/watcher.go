package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// CredentialWatcher watches the credentials file and pushes fresh key sets
// to a callback when it changes. Edits are debounced so editor write
// patterns (truncate, write, rename) trigger a single reload.
type CredentialWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// NewCredentialWatcher creates a watcher for the given credentials file.
// The parent directory is watched so atomic-rename saves are seen.
func NewCredentialWatcher(path string) (*CredentialWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %q: %w", filepath.Dir(path), err)
	}

	return &CredentialWatcher{
		watcher:  watcher,
		path:     path,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Watch blocks until ctx is cancelled, invoking onReload with the freshly
// parsed credential map after each settled change to the watched file.
// Parse failures keep the previous credentials and are logged, not fatal.
func (w *CredentialWatcher) Watch(ctx context.Context, onReload func(map[string]string)) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil

			creds, err := LoadCredentialsFile(w.path)
			if err != nil {
				slog.Warn("credentials reload failed, keeping previous keys",
					"path", w.path,
					"error", err,
				)
				continue
			}
			slog.Info("credentials reloaded", "path", w.path, "providers", len(creds))
			onReload(creds)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}
