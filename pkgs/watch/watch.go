// Package watch re-runs an action whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eko-071/code-obfuscator/pkgs/errors"
)

const defaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the settle window between the last filesystem
// event and the callback.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher invokes a callback after each change to one file, debouncing the
// event bursts editors produce on save.
type Watcher struct {
	path     string
	debounce time.Duration
	fw       *fsnotify.Watcher
}

// New builds a watcher for path. The parent directory is watched rather
// than the file itself, so editors that save by renaming a temp file over
// the original do not silently detach the watch.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewWatchError(fmt.Sprintf("Failed to resolve '%s'", path), err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewWatchError("Failed to start file watcher", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.NewWatchError(fmt.Sprintf("Failed to watch '%s'", path), err)
	}

	w := &Watcher{path: abs, debounce: defaultDebounce, fw: fw}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is cancelled or the watcher fails, invoking
// onChange after every settled change to the watched file.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return errors.New(errors.ErrWatch, "watch event channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-fire:
			onChange()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New(errors.ErrWatch, "watch error channel closed")
			}
			return errors.NewWatchError("File watcher failed", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
