// Package watch rebuilds a site when its sources change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a Watcher waits after the last change before
// calling its callback. Editors tend to write a file in several steps.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls a function when files in one directory change.
type Watcher struct {
	dir      string
	match    func(name string) bool
	onChange func(context.Context) error
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	// Debounce may be changed before Run is called.
	Debounce time.Duration
}

// New returns a Watcher for dir. Subdirectories are not watched. match is
// given the changed file's name relative to dir, with forward slashes; only
// changes it accepts trigger onChange.
func New(dir string, match func(name string) bool, onChange func(context.Context) error, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch.New: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch.New: %w", err)
	}
	if err := w.Add(abs); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch.New: %s: %w", abs, err)
	}
	return &Watcher{
		dir:      abs,
		match:    match,
		onChange: onChange,
		logger:   logger,
		watcher:  w,
		Debounce: DefaultDebounce,
	}, nil
}

// Run watches until ctx is done, then releases the watcher. Errors from
// onChange are logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.logger.Info("watching for changes", zap.String("dir", w.dir))

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(w.Debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		case <-timer.C:
			w.logger.Info("rebuilding")
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

// relevant reports whether event is a content change of a matched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return false
	}
	return w.match(filepath.ToSlash(rel))
}
