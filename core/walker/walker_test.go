package walker

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tristendillon/httpskin/core/models"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const apiSource = `package com.example;

import rx.Observable;

@ApiInterface
public interface Api {
    @HttpGet("users/?page=1")
    Observable<User> users();
}
`

const userSource = `package com.example;

public class User {
}
`

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, "src/com/example/Api.java"), apiSource)
	write(t, filepath.Join(dir, "src/com/example/User.java"), userSource)
	write(t, filepath.Join(dir, "src/com/example/notes.txt"), "not java")
	write(t, filepath.Join(dir, "src/build/Generated.java"), "package gen;")
	write(t, filepath.Join(dir, "src/legacy/Old.java"), "package legacy;")
	write(t, filepath.Join(dir, "api.yaml"), "interfaces:\n  - name: com.example.Status\n    endpoints:\n      - get: status\n")
	return dir
}

func TestDiscover(t *testing.T) {
	dir := setupProject(t)
	w := NewWalker(dir, []string{"legacy"}, nil)

	files, err := w.Discover(
		[]string{filepath.Join(dir, "src"), filepath.Join(dir, "missing")},
		[]string{filepath.Join(dir, "api.yaml")},
	)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.Kind.String()+":"+f.RelPath)
	}
	want := []string{
		"java:src/com/example/Api.java",
		"java:src/com/example/User.java",
		"manifest:api.yaml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverMissingManifest(t *testing.T) {
	dir := t.TempDir()
	w := NewWalker(dir, nil, nil)
	if _, err := w.Discover(nil, []string{filepath.Join(dir, "nope.yaml")}); err == nil {
		t.Error("Discover() should fail for a missing manifest")
	}
}

func TestWalk(t *testing.T) {
	dir := setupProject(t)
	w := NewWalker(dir, []string{"legacy"}, nil)

	var seen int
	parsed, err := w.Walk([]string{filepath.Join(dir, "src")}, []string{filepath.Join(dir, "api.yaml")},
		func(models.DiscoveredFile) { seen++ })
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if seen != 3 {
		t.Errorf("onFile called %d times, want 3", seen)
	}

	ifaces := Interfaces(parsed)
	if len(ifaces) != 2 || ifaces[0].Name != "com.example.Api" || ifaces[1].Name != "com.example.Status" {
		t.Fatalf("Interfaces() = %+v", ifaces)
	}
	if got := ifaces[0].Endpoints[0].DeclaredReturnType; got != "rx.Observable<com.example.User>" {
		t.Errorf("return type not linked: %q", got)
	}
	if ifaces[1].Endpoints[0].MethodName != "getStatus" {
		t.Errorf("manifest endpoint = %+v", ifaces[1].Endpoints[0])
	}
	if w.Tree.Count != 2 {
		t.Errorf("Tree.Count = %d, want 2", w.Tree.Count)
	}
	if len(Problems(parsed)) != 0 {
		t.Errorf("Problems() = %v", Problems(parsed))
	}
}

func TestWalkUsesCacheWithoutSharingState(t *testing.T) {
	dir := setupProject(t)
	w := NewWalker(dir, nil, nil)
	roots := []string{filepath.Join(dir, "src/com")}

	if _, err := w.Walk(roots, nil, nil); err != nil {
		t.Fatal(err)
	}
	// The type the model was linked to disappears; the cached scan must not
	// keep the old link.
	if err := os.Remove(filepath.Join(dir, "src/com/example/User.java")); err != nil {
		t.Fatal(err)
	}
	parsed, err := w.Walk(roots, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := Interfaces(parsed)[0].Endpoints[0].DeclaredReturnType; got != "rx.Observable<User>" {
		t.Errorf("return type = %q, want the unlinked form", got)
	}
	if m := w.Cache.GetMetrics(); m.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", m.Hits)
	}
}

func TestIsExcluded(t *testing.T) {
	exclude := []string{"build", "app/generated/"}
	tests := []struct {
		rel  string
		want bool
	}{
		{"build", true},
		{"src/build/X.java", true},
		{"rebuild/X.java", false},
		{"app/generated/A.java", true},
		{"app/generated2/A.java", false},
		{"src/main/java/Api.java", false},
	}
	for _, tt := range tests {
		if got := IsExcluded(tt.rel, exclude); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}
