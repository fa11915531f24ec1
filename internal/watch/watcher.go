// Package watch reports edits made to the tracked files by other programs.
//
// Directories are watched rather than the files themselves because every
// save replaces the file through a rename, which would drop a file watch.
// An event only counts as external when the file content differs from what
// the session last wrote or loaded.
package watch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"tilecfg/internal/core"
)

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watcher closed")

// Change describes one external modification of a tracked file.
type Change struct {
	Target  core.Target
	Path    string
	Removed bool
}

// KnownFunc returns the content the session believes target holds.
type KnownFunc func(target core.Target) []byte

// Watcher delivers Changes to a callback from a single goroutine.
type Watcher struct {
	fsw      *fsnotify.Watcher
	known    KnownFunc
	onChange func(Change)
	logger   core.Logger

	mu      sync.Mutex
	tracked map[string]core.Target
	dirs    map[string]bool
	closed  bool

	done chan struct{}
}

func New(known KnownFunc, onChange func(Change), logger core.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}
	w := &Watcher{
		fsw:      fsw,
		known:    known,
		onChange: onChange,
		logger:   logger,
		tracked:  make(map[string]core.Target),
		dirs:     make(map[string]bool),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Add starts watching path on behalf of target. The parent directory must exist.
func (w *Watcher) Add(target core.Target, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.tracked[abs] = target
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	target, ok := w.tracked[filepath.Clean(ev.Name)]
	w.mu.Unlock()
	if !ok {
		return
	}

	data, err := os.ReadFile(ev.Name)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// A save in progress renames over the file; only report when
		// the session has content for it.
		if len(w.known(target)) == 0 {
			return
		}
		w.onChange(Change{Target: target, Path: ev.Name, Removed: true})
	case err != nil:
		w.logger.Warn("reading watched file failed", "path", ev.Name, "error", err)
	case !bytes.Equal(data, w.known(target)):
		w.onChange(Change{Target: target, Path: ev.Name})
	}
}
