// Package watch reloads a DOT file when it changes on disk.
//
// The directory holding the file is watched rather than the file itself,
// since editors and Cubicle often replace files by renaming over them.
// Bursts of events are debounced into one reload.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce *Debouncer
	logger   *log.Logger
	fs       *fsnotify.Watcher
}

// New watches path. A nil logger discards output.
func New(path string, debounce *Debouncer, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce == nil {
		debounce = NewDebouncer(0)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, logger: logger, fs: fw}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Run calls reload with the file's content after each settled change until
// ctx is done. Read errors are logged and skipped; a removed file is
// reloaded once it reappears.
func (w *Watcher) Run(ctx context.Context, reload func(data []byte)) error {
	defer w.fs.Close()
	defer w.debounce.Cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev.Op) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op)
			w.debounce.Trigger(func() {
				if ctx.Err() != nil {
					return
				}
				data, err := os.ReadFile(w.path)
				if err != nil {
					w.logger.Warn("cannot reload", "path", w.path, "error", err)
					return
				}
				reload(data)
			})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
