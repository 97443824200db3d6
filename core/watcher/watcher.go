// Package watcher reruns generation when sources change.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tristendillon/httpskin/core/cache"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/walker"
)

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
	Cache       *cache.FileCache

	// files are watched individually, e.g. manifests outside the roots.
	files map[string]bool
	runMu sync.Mutex
}

func NewFileWatcher(rootDirs, files, excludePaths []string, debounce time.Duration, fc *cache.FileCache) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(rootDirs, excludePaths, debounce)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	impl := &FileWatcherImpl{
		FileWatcher: fw,
		Cache:       fc,
		files:       make(map[string]bool),
	}
	for _, f := range files {
		impl.files[filepath.Clean(f)] = true
	}
	return impl, nil
}

// Watch runs OnStart, then OnChange after every debounced burst of
// relevant events, until ctx is done.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	for _, root := range fw.FileWatcher.RootDirs {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Warn("Not watching missing directory %s", root)
			continue
		}
		if err := fw.addWatchersRecursively(root); err != nil {
			return fmt.Errorf("failed to add watchers: %w", err)
		}
	}
	for file := range fw.files {
		dir := filepath.Dir(file)
		logger.Debug("Adding watcher for: %s", dir)
		if err := fw.FileWatcher.Watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", dir, err)
		}
	}

	fw.runMu.Lock()
	err := fw.FileWatcher.OnStart()
	fw.runMu.Unlock()
	if err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return fw.Close()

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(event)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) handleEvent(event fsnotify.Event) {
	if fw.shouldExcludePath(event.Name) {
		return
	}
	logger.Debug("File event: %s %s", event.Op, event.Name)

	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() && fw.underRoot(event.Name) {
			if err := fw.addWatchersRecursively(event.Name); err != nil {
				logger.Error("Failed to watch new directory %s: %v", event.Name, err)
			}
			// Files created together with the directory raise no events.
			fw.markAndDebounce(event.Name)
			return
		}
	}

	if !fw.isRelevant(event.Name) {
		return
	}
	if fw.Cache != nil && (event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		fw.Cache.InvalidateFile(event.Name)
	}
	fw.markAndDebounce(event.Name)
}

func (fw *FileWatcherImpl) markAndDebounce(path string) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	fw.FileWatcher.MarkPending(path)
	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}
	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, fw.flush)
}

// flush hands the pending paths to OnChange. Runs never overlap; events
// arriving during a run are picked up by the next one.
func (fw *FileWatcherImpl) flush() {
	fw.runMu.Lock()
	defer fw.runMu.Unlock()

	fw.FileWatcher.Mutex.Lock()
	changed := fw.FileWatcher.TakePending()
	fw.FileWatcher.Mutex.Unlock()
	if len(changed) == 0 {
		return
	}

	logger.Debug("File changes detected, regenerating...")
	if err := fw.FileWatcher.OnChange(changed); err != nil {
		logger.Error("Watcher.OnChange failed: %v", err)
	}
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}
	fw.FileWatcher.Mutex.Unlock()

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

func (fw *FileWatcherImpl) isRelevant(path string) bool {
	if fw.files[filepath.Clean(path)] {
		return true
	}
	return strings.HasSuffix(path, ".java") && fw.underRoot(path)
}

func (fw *FileWatcherImpl) underRoot(path string) bool {
	_, ok := fw.relToRoot(path)
	return ok
}

func (fw *FileWatcherImpl) relToRoot(path string) (string, bool) {
	for _, root := range fw.FileWatcher.RootDirs {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return rel, true
	}
	return "", false
}

func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	if fw.files[filepath.Clean(path)] {
		return false
	}
	rel, ok := fw.relToRoot(path)
	if !ok || rel == "." {
		return false
	}
	return walker.IsExcluded(rel, fw.FileWatcher.ExcludePaths)
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
