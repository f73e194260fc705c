// Package watcher triggers report regeneration when Python sources under
// the traversal root change. Events are debounced so an editor save burst
// produces one regeneration, not many.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/pyoutline/internal/ignore"
)

// DefaultDebounce is the settle time between the last filesystem event and
// the regeneration it triggers.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree for source changes and invokes a
// callback once changes settle.
type Watcher struct {
	rootDir   string
	matcher   *ignore.Matcher
	skipPaths map[string]struct{}
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onSettle  func(changed []string)
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher over rootDir. Directories excluded by the matcher
// are not watched. skipPaths lists absolute paths whose events are always
// discarded (the report output file, so writing it never retriggers a run).
// onSettle receives the root-relative paths that changed in the batch.
func New(rootDir string, matcher *ignore.Matcher, skipPaths []string, debounce time.Duration, onSettle func(changed []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		rootDir:   rootDir,
		matcher:   matcher,
		skipPaths: make(map[string]struct{}, len(skipPaths)),
		watcher:   fsw,
		debounce:  debounce,
		onSettle:  onSettle,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, p := range skipPaths {
		if abs, err := filepath.Abs(p); err == nil {
			w.skipPaths[abs] = struct{}{}
		}
	}

	if err := w.addDirectoriesRecursively(rootDir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	settleCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories need watching even when the event itself
			// does not qualify as a source change.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.shouldWatchDirectory(event.Name) {
						if err := w.addDirectoriesRecursively(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
				}
			}

			if !w.ShouldProcessEvent(event) {
				continue
			}

			relPath, _ := filepath.Rel(w.rootDir, event.Name)
			changed[filepath.ToSlash(relPath)] = true

			// Reset the debounce timer, draining it if it already fired.
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case settleCh <- struct{}{}:
				default:
				}
			})

		case <-settleCh:
			if len(changed) > 0 {
				batch := make([]string, 0, len(changed))
				for path := range changed {
					batch = append(batch, path)
				}
				w.onSettle(batch)
				changed = make(map[string]bool)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// ShouldProcessEvent reports whether an event should count toward the next
// regeneration: write/create/remove/rename of a non-excluded Python file.
func (w *Watcher) ShouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if abs, err := filepath.Abs(event.Name); err == nil {
		if _, skip := w.skipPaths[abs]; skip {
			return false
		}
	}

	if filepath.Ext(event.Name) != ".py" {
		return false
	}

	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return false
	}
	return !w.matcher.Excluded(filepath.Base(event.Name), filepath.ToSlash(relPath))
}

// shouldWatchDirectory checks if a directory should be watched.
func (w *Watcher) shouldWatchDirectory(path string) bool {
	relPath, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		return false
	}
	if relPath == "." {
		return true
	}
	return !w.matcher.Excluded(filepath.Base(path), filepath.ToSlash(relPath))
}

// addDirectoriesRecursively adds all non-excluded directories in the tree
// to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Log but continue - one unreadable directory should not kill
			// the whole watch.
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}
		if !w.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
			return nil
		}
		return nil
	})
}
