// Package watcher watches template sources for changes with debouncing, so
// a burst of editor writes produces a single change notification.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent describes one changed file.
type ChangeEvent struct {
	Path    string
	Op      string
	ModTime time.Time
}

// FileFilter decides whether a path is interesting.
type FileFilter func(path string) bool

// ChangeHandler receives a debounced batch of change events.
type ChangeHandler func(events []ChangeEvent)

// FileWatcher watches directories recursively and delivers debounced change
// batches to its handlers.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mutex    sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
}

// New creates a file watcher delivering batches at most once per debounce
// interval.
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{watcher: w, debounce: debounce}, nil
}

// AddFilter adds a path filter; with no filters every path matches.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive watches root and every directory below it.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}

		return nil
	})
}

// Start runs the watch loop until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.loop(ctx)
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) loop(ctx context.Context) {
	var pending []ChangeEvent

	// The timer's first fire finds no pending events and is ignored.
	timer := time.NewTimer(fw.debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			pending = append(pending, ChangeEvent{
				Path:    event.Name,
				Op:      event.Op.String(),
				ModTime: time.Now(),
			})
			timer.Reset(fw.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			batch := pending
			pending = nil
			fw.dispatch(batch)

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (fw *FileWatcher) matches(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()

	if len(fw.filters) == 0 {
		return true
	}

	for _, filter := range fw.filters {
		if filter(path) {
			return true
		}
	}

	return false
}

func (fw *FileWatcher) dispatch(events []ChangeEvent) {
	fw.mutex.RLock()
	handlers := make([]ChangeHandler, len(fw.handlers))
	copy(handlers, fw.handlers)
	fw.mutex.RUnlock()

	for _, handler := range handlers {
		handler(events)
	}
}
