package models

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/httpskin/core/logger"
)

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	RootDirs      []string
	ExcludePaths  []string
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Mutex         sync.Mutex
	OnStart       func() error
	OnChange      func(changed []string) error
	OnClose       func() error

	pending map[string]struct{}
}

func NewFileWatcher(rootDirs []string, excludePaths []string, debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	fw := &FileWatcher{
		Watcher:      watcher,
		RootDirs:     rootDirs,
		ExcludePaths: append([]string{".git"}, excludePaths...),
		Debounce:     debounce,
		OnStart:      func() error { return fmt.Errorf("OnStart not set") },
		OnChange:     func([]string) error { return fmt.Errorf("OnChange not set") },
		OnClose:      func() error { return nil },
		pending:      make(map[string]struct{}),
	}

	logger.Debug("Excluding paths: %v", fw.ExcludePaths)
	return fw, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func(changed []string) error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}

// MarkPending records a changed path. Callers must hold Mutex.
func (fw *FileWatcher) MarkPending(path string) {
	fw.pending[path] = struct{}{}
}

// TakePending returns and clears the changed paths. Callers must hold Mutex.
func (fw *FileWatcher) TakePending() []string {
	changed := make([]string, 0, len(fw.pending))
	for path := range fw.pending {
		changed = append(changed, path)
	}
	sort.Strings(changed)
	fw.pending = make(map[string]struct{})
	return changed
}
