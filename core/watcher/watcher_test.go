package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tristendillon/httpskin/core/cache"
	"github.com/tristendillon/httpskin/core/models"
)

func newTestWatcher(t *testing.T, root string, files []string, fc *cache.FileCache) *FileWatcherImpl {
	t.Helper()
	fw, err := NewFileWatcher([]string{root}, files, []string{"build"}, 20*time.Millisecond, fc)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = fw.FileWatcher.Watcher.Close() })
	return fw
}

func TestHandleEventFiltersAndInvalidates(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "api.yaml")
	api := filepath.Join(root, "Api.java")
	if err := os.WriteFile(api, []byte("interface Api {}"), 0644); err != nil {
		t.Fatal(err)
	}

	fc := cache.NewFileCache(nil)
	if err := fc.Store(api, &models.ParsedFile{}); err != nil {
		t.Fatal(err)
	}

	fw := newTestWatcher(t, root, []string{manifest}, fc)
	changes := make(chan []string, 1)
	fw.FileWatcher.AddOnChangeFunc(func(changed []string) error {
		changes <- changed
		return nil
	})

	fw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Write})
	fw.handleEvent(fsnotify.Event{Name: filepath.Join(root, "build", "Gen.java"), Op: fsnotify.Write})
	fw.handleEvent(fsnotify.Event{Name: filepath.Join(t.TempDir(), "Other.java"), Op: fsnotify.Write})
	fw.handleEvent(fsnotify.Event{Name: api, Op: fsnotify.Write})
	fw.handleEvent(fsnotify.Event{Name: manifest, Op: fsnotify.Create})

	select {
	case got := <-changes:
		want := []string{api, manifest}
		if want[0] > want[1] {
			want[0], want[1] = want[1], want[0]
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("changed = %v, want %v", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	if fc.GetMetrics().TotalEntries != 0 {
		t.Error("written file was not invalidated")
	}
}

func TestFlushWithoutPendingDoesNothing(t *testing.T) {
	fw := newTestWatcher(t, t.TempDir(), nil, nil)
	called := false
	fw.FileWatcher.AddOnChangeFunc(func([]string) error {
		called = true
		return nil
	})
	fw.flush()
	if called {
		t.Error("OnChange called without pending changes")
	}
}

func TestWatchRunsOnStartAndOnChange(t *testing.T) {
	root := t.TempDir()
	fw := newTestWatcher(t, root, nil, nil)

	started := make(chan struct{})
	changes := make(chan []string, 4)
	fw.FileWatcher.AddOnStartFunc(func() error {
		close(started)
		return nil
	})
	fw.FileWatcher.AddOnChangeFunc(func(changed []string) error {
		changes <- changed
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("OnStart was not called")
	}

	path := filepath.Join(root, "Api.java")
	if err := os.WriteFile(path, []byte("interface Api {}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		if len(got) != 1 || got[0] != path {
			t.Errorf("changed = %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}
