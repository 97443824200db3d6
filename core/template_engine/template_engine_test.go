package template_engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tristendillon/httpskin/core/models"
)

func TestTemplateRefsExist(t *testing.T) {
	te := NewTemplateEngine()
	refs := []TemplateRef{
		TEMPLATES.JAVA.Ref,
		TEMPLATES.JAVA.CLASS,
		TEMPLATES.JAVA.GET_NO_PARAMS,
		TEMPLATES.JAVA.GET_PARAMS,
		TEMPLATES.JAVA.POST_NO_PARAMS,
		TEMPLATES.JAVA.POST_PARAMS,
		TEMPLATES.INIT.Ref,
	}
	for _, ref := range refs {
		if err := te.ValidateTemplate(ref); err != nil {
			t.Errorf("ValidateTemplate(%s) error = %v", ref.Path, err)
		}
	}
}

func TestValidateTemplateMismatch(t *testing.T) {
	te := NewTemplateEngine()
	if err := te.ValidateTemplate(TemplateRef{Path: "java", IsDir: false}); err == nil {
		t.Error("expected a type mismatch error for a directory used as a file")
	}
	if err := te.ValidateTemplate(TemplateRef{Path: "java/missing.tmpl"}); err == nil {
		t.Error("expected an error for a missing template")
	}
}

func TestParseRejectsDirectory(t *testing.T) {
	if _, err := NewTemplateEngine().Parse(TEMPLATES.JAVA.Ref); err == nil {
		t.Error("Parse() of a directory should fail")
	}
}

func TestModelClass(t *testing.T) {
	if got := modelClass(models.ModelReference{}); got != "null" {
		t.Errorf("modelClass(absent) = %q", got)
	}
	if got := modelClass(models.ModelReference{QualifiedName: "a.B"}); got != "a.B.class" {
		t.Errorf("modelClass(a.B) = %q", got)
	}
}

func TestFormalArgsSkipsDefaults(t *testing.T) {
	ps := models.ParameterSet{
		{Name: "a", Kind: models.DeclaredParam},
		{Name: "user", Kind: models.DefaultParam, Value: "x"},
		{Name: "b", Kind: models.DeclaredParam},
	}
	if got := formalArgs(ps); got != "String a, String b" {
		t.Errorf("formalArgs() = %q", got)
	}
}

func TestGenerateFolder(t *testing.T) {
	dir := t.TempDir()
	data := map[string]string{"BasePackage": "com.example.http", "ApiPackage": "api"}
	written, err := NewTemplateEngine().GenerateFolder(TEMPLATES.INIT.Ref, dir, data, false)
	if err != nil {
		t.Fatalf("GenerateFolder() error = %v", err)
	}
	if len(written) != 3 {
		t.Errorf("written = %v, want 3 files", written)
	}

	cfg, err := os.ReadFile(filepath.Join(dir, "httpskin.yaml"))
	if err != nil {
		t.Fatalf("config not generated: %v", err)
	}
	if !strings.Contains(string(cfg), "base_package: com.example.http") {
		t.Errorf("config missing base package:\n%s", cfg)
	}

	java, err := os.ReadFile(filepath.Join(dir, "src", "main", "java", "api", "ApiService.java"))
	if err != nil {
		t.Fatalf("interface not generated: %v", err)
	}
	if !strings.HasPrefix(string(java), "package api;") {
		t.Errorf("unexpected interface header:\n%s", java)
	}

	if _, err := NewTemplateEngine().GenerateFolder(TEMPLATES.INIT.Ref, dir, data, false); !errors.Is(err, ErrExists) {
		t.Errorf("second GenerateFolder() error = %v, want ErrExists", err)
	}
	if _, err := NewTemplateEngine().GenerateFolder(TEMPLATES.INIT.Ref, dir, data, true); err != nil {
		t.Errorf("overwriting GenerateFolder() error = %v", err)
	}
}

func TestGenerateFolderRejectsMissingData(t *testing.T) {
	_, err := NewTemplateEngine().GenerateFolder(TEMPLATES.INIT.Ref, t.TempDir(), map[string]string{}, false)
	if err == nil {
		t.Error("expected missing template data to fail")
	}
}
