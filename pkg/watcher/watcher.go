// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and triggers callbacks
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
	onError   func(error)
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   watcher,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// SetOnError sets the callback for watcher errors
func (fw *FileWatcher) SetOnError(callback func(error)) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onError = callback
}

// Watch starts watching the specified files
// callback will be called when any of the files change
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}

		fw.callbacks[absPath] = callback
	}

	return nil
}

// Start begins watching for file changes until ctx is cancelled or the watcher is closed
func (fw *FileWatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				switch {
				case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
					fw.handleFileChange(event.Name)
				case event.Has(fsnotify.Rename), event.Has(fsnotify.Remove):
					// Editors that save by rename drop the watch; re-add once the file is back
					fw.rewatch(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.mu.Lock()
				onError := fw.onError
				fw.mu.Unlock()
				if onError != nil {
					onError(err)
				}
			}
		}
	}()
}

// handleFileChange handles a file change event with debouncing
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

func (fw *FileWatcher) rewatch(filePath string) {
	fw.mu.Lock()
	_, exists := fw.callbacks[filePath]
	fw.mu.Unlock()
	if !exists {
		return
	}

	time.AfterFunc(fw.debounce, func() {
		if err := fw.watcher.Add(filePath); err == nil {
			fw.handleFileChange(filePath)
		}
	})
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// RemoveAll removes all watched files
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for file := range fw.callbacks {
		if err := fw.watcher.Remove(file); err != nil {
			return err
		}
	}
	for _, timer := range fw.timers {
		timer.Stop()
	}

	fw.callbacks = make(map[string]func(string))
	fw.timers = make(map[string]*time.Timer)
	return nil
}
