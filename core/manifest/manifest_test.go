package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tristendillon/httpskin/core/models"
)

func TestParse(t *testing.T) {
	data := []byte(`
interfaces:
  - name: kale.http.example.APIService
    endpoints:
      - name: get021
        get: search/
        returns: rx.Observable<String>
      - name: post041
        post: search?user=aaaa3&name=kale
        returns: rx.Observable
        params:
          - create_time
          - {name: user_name, type: java.lang.String}
      - get: users/{id}/info?lang=en
`)
	parsed, err := Parse(data, "api.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Problems) != 0 {
		t.Errorf("Problems = %v", parsed.Problems)
	}
	if len(parsed.Interfaces) != 1 {
		t.Fatalf("Interfaces = %d", len(parsed.Interfaces))
	}

	want := []models.EndpointDeclaration{
		{
			Interface:          "kale.http.example.APIService",
			MethodName:         "get021",
			RawURL:             "search/",
			DeclaredReturnType: "rx.Observable<String>",
			Source:             "api.yaml:5",
		},
		{
			Interface:          "kale.http.example.APIService",
			MethodName:         "post041",
			IsPost:             true,
			RawURL:             "search?user=aaaa3&name=kale",
			DeclaredReturnType: "rx.Observable",
			DeclaredParams: []models.Param{
				{Name: "create_time", Type: "String"},
				{Name: "user_name", Type: "java.lang.String"},
			},
			Source: "api.yaml:8",
		},
		{
			Interface:  "kale.http.example.APIService",
			MethodName: "getUsersIdInfo",
			RawURL:     "users/{id}/info?lang=en",
			Source:     "api.yaml:14",
		},
	}
	if got := parsed.Interfaces[0].Endpoints; !reflect.DeepEqual(got, want) {
		t.Errorf("Endpoints mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParseProblems(t *testing.T) {
	data := []byte(`
interfaces:
  - name: a.Api
    endpoints:
      - name: both
        get: x
        post: y
      - name: neither
      - name: fine
        get: ""
`)
	parsed, err := Parse(data, "api.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Problems) != 2 {
		t.Fatalf("Problems = %v", parsed.Problems)
	}
	if !strings.Contains(parsed.Problems[0], "both get and post") || !strings.Contains(parsed.Problems[1], "one of get or post") {
		t.Errorf("Problems = %v", parsed.Problems)
	}
	// An empty URL is kept; generation reports it for that method.
	if parsed.EndpointCount() != 1 || parsed.Interfaces[0].Endpoints[0].RawURL != "" {
		t.Errorf("unexpected endpoints: %+v", parsed.Interfaces[0].Endpoints)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "interfaces:\n  - name: a.Api\n    endpionts: []\n"},
		{"missing interface name", "interfaces:\n  - endpoints: []\n"},
		{"bad param", "interfaces:\n  - name: a.Api\n    endpoints:\n      - get: x\n        params: [[a]]\n"},
		{"not yaml", "interfaces: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), "api.yaml"); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	parsed, err := Parse(nil, "empty.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(parsed.Interfaces) != 0 {
		t.Errorf("Interfaces = %v", parsed.Interfaces)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte("interfaces:\n  - name: a.Api\n    endpoints:\n      - post: ping\n"), 0644); err != nil {
		t.Fatal(err)
	}
	parsed, err := Load(path, "api.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if parsed.Path != path {
		t.Errorf("Path = %q", parsed.Path)
	}
	if decl := parsed.Interfaces[0].Endpoints[0]; decl.MethodName != "postPing" || !decl.IsPost {
		t.Errorf("decl = %+v", decl)
	}
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		verb, url, want string
	}{
		{"GET", "search/", "getSearch"},
		{"POST", "/user/login?x=1", "postUserLogin"},
		{"GET", "v2/blog_list", "getV2BlogList"},
		{"POST", "", "post"},
	}
	for _, tt := range tests {
		if got := DeriveName(tt.verb, tt.url); got != tt.want {
			t.Errorf("DeriveName(%q, %q) = %q, want %q", tt.verb, tt.url, got, tt.want)
		}
	}
}
