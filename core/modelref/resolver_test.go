package modelref

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	r := NewResolver("kale.net.http")

	tests := []struct {
		name        string
		declared    string
		path        string
		want        string
		synthesized bool
	}{
		{
			name:        "unqualified model gets path package",
			declared:    "Box<MainActivity>",
			path:        "search/",
			want:        "kale.net.http.search.MainActivity",
			synthesized: true,
		},
		{
			name:     "qualified model used verbatim",
			declared: "Box<kale.model.Foo>",
			path:     "search/",
			want:     "kale.model.Foo",
		},
		{
			name:     "bare wrapper has no payload",
			declared: "Box",
			path:     "search/",
			want:     "",
		},
		{
			name:     "qualified bare wrapper has no payload",
			declared: "rx.Observable",
			path:     "test/",
			want:     "",
		},
		{
			name:     "empty generic argument",
			declared: "Box<>",
			path:     "search/",
			want:     "",
		},
		{
			name:     "java.lang type stays simple",
			declared: "rx.Observable<String>",
			path:     "search",
			want:     "String",
		},
		{
			name:     "java.lang array",
			declared: "rx.Observable<String[]>",
			path:     "search",
			want:     "String[]",
		},
		{
			name:        "nested path is lower cased",
			declared:    "Observable<ExampleHttpRequest>",
			path:        "/Blog/List/by_club_id/",
			want:        "kale.net.http.blog.list.by_club_id.ExampleHttpRequest",
			synthesized: true,
		},
		{
			name:        "root path uses base package",
			declared:    "Observable<Root>",
			path:        "/",
			want:        "kale.net.http.Root",
			synthesized: true,
		},
		{
			name:        "segments are made package safe",
			declared:    "Observable<Item>",
			path:        "v1/some-thing/2fa",
			want:        "kale.net.http.v1.some_thing._2fa.Item",
			synthesized: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.declared, tt.path)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.QualifiedName != tt.want {
				t.Errorf("QualifiedName = %q, want %q", got.QualifiedName, tt.want)
			}
			if got.IsAbsent() != (tt.want == "") {
				t.Errorf("IsAbsent() = %v", got.IsAbsent())
			}
			if got.Synthesized != tt.synthesized {
				t.Errorf("Synthesized = %v, want %v", got.Synthesized, tt.synthesized)
			}
		})
	}
}

func TestResolveSamePathsShareAPackage(t *testing.T) {
	r := NewResolver("kale.net.http")
	a, _ := r.Resolve("Box<Foo>", "search/")
	b, _ := r.Resolve("Box<Foo>", "/search")
	c, _ := r.Resolve("Box<Foo>", "other/")
	if a.QualifiedName != b.QualifiedName {
		t.Errorf("%q != %q", a.QualifiedName, b.QualifiedName)
	}
	if a.QualifiedName == c.QualifiedName {
		t.Errorf("different paths resolved to the same name %q", a.QualifiedName)
	}
}

func TestResolveRejectsNestedGenerics(t *testing.T) {
	r := NewResolver("kale.net.http")
	for _, declared := range []string{"Box<List<Foo>>", "Box<? extends Foo>", "Box<Map<String, String>>"} {
		_, err := r.Resolve(declared, "search/")
		var unsupported *UnsupportedModelError
		if !errors.As(err, &unsupported) {
			t.Errorf("Resolve(%q) error = %v, want *UnsupportedModelError", declared, err)
		}
	}
}

func TestSyntheticPackageAvoidsKeywords(t *testing.T) {
	r := NewResolver("kale.net.http")
	if got := r.SyntheticPackage("api/new/"); got != "kale.net.http.api.new_" {
		t.Errorf("SyntheticPackage() = %q", got)
	}
}

func TestSyntheticPackageSegments(t *testing.T) {
	r := NewResolver("kale.net.http")
	tests := []struct {
		path string
		want string
	}{
		{"/Search/", "kale.net.http.search"},
		{"ÄRZTE/Über", "kale.net.http.ärzte.über"},
		{"v1/2fa/my-list", "kale.net.http.v1._2fa.my_list"},
		{"a b/x€", "kale.net.http.a_b.x_"},
	}
	for _, tt := range tests {
		if got := r.SyntheticPackage(tt.path); got != tt.want {
			t.Errorf("SyntheticPackage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
