// Package watch re-runs a callback when SVG icons change on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to
// settle before calling back.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches icon directories and single files for changes
type Watcher struct {
	dirs     map[string]bool
	files    map[string]bool
	callback func() error
	watcher  *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
}

// NewWatcher creates a watcher over paths. Directories are watched for any
// .svg change; files are watched individually through their directory.
func NewWatcher(paths []string, callback func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		dirs:     map[string]bool{},
		files:    map[string]bool{},
		callback: callback,
		watcher:  watcher,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}

	added := map[string]bool{}
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		dir := absPath
		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			w.dirs[absPath] = true
		} else {
			w.files[absPath] = true
			dir = filepath.Dir(absPath)
		}
		if added[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		added[dir] = true
		debug.Debug("Watching directory", "dir", dir)
	}

	return w, nil
}

// SetDebounce changes the settle delay.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// relevant reports whether an event on path should trigger a run.
func (w *Watcher) relevant(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.files[absPath] {
		return true
	}
	return w.dirs[filepath.Dir(absPath)] && strings.EqualFold(filepath.Ext(absPath), ".svg")
}

// Start runs the callback once, then again after every settled burst of
// changes. Callback errors are reported and do not stop watching.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go func() {
		debounceTimer := time.NewTimer(w.debounce)
		debounceTimer.Stop()
		var debounceCh <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if w.relevant(event.Name) {
					debug.Debug("Icon change detected", "path", event.Name, "op", event.Op.String())
					debounceTimer.Reset(w.debounce)
					debounceCh = debounceTimer.C
				}

			case <-debounceCh:
				if err := w.callback(); err != nil {
					fmt.Fprintf(os.Stderr, "Watch callback error: %v\n", err)
				}
				debounceCh = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop stops watching
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
