package template_engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/shared"
)

type TemplateRef struct {
	Path  string
	IsDir bool
}

func (tr TemplateRef) IsFile() bool {
	return !tr.IsDir
}

func (tr TemplateRef) IsDirectory() bool {
	return tr.IsDir
}

func (tr TemplateRef) embedPath() string {
	return path.Join("templates", tr.Path)
}

// ErrExists is returned by GenerateFolder when a target file exists and
// overwriting was not requested.
var ErrExists = errors.New("file already exists")

type TemplateEngine struct {
	funcMap template.FuncMap
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: template.FuncMap{
		"join":       strings.Join,
		"javaString": shared.JavaString,
		"modelClass": modelClass,
		"formalArgs": formalArgs,
	}}
}

// modelClass is the class literal handed to the transport, or null when
// the endpoint has no payload type.
func modelClass(ref models.ModelReference) string {
	if ref.IsAbsent() {
		return "null"
	}
	return ref.QualifiedName + ".class"
}

func formalArgs(ps models.ParameterSet) string {
	declared := ps.Declared()
	args := make([]string, len(declared))
	for i, p := range declared {
		args[i] = "String " + p.Name
	}
	return strings.Join(args, ", ")
}

func (te *TemplateEngine) compile(embedPath string) (*template.Template, error) {
	content, err := TemplateFS.ReadFile(embedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", embedPath, err)
	}
	tmpl, err := template.New(path.Base(embedPath)).
		Funcs(te.funcMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", embedPath, err)
	}
	return tmpl, nil
}

// Parse loads and compiles a single template so callers can execute it
// many times.
func (te *TemplateEngine) Parse(templateRef TemplateRef) (*template.Template, error) {
	if templateRef.IsDirectory() {
		return nil, fmt.Errorf("cannot parse directory reference: %s", templateRef.Path)
	}
	return te.compile(templateRef.embedPath())
}

// GenerateFolder writes a template directory into outputDir, executing
// every *.tmpl file and dropping its suffix. Without overwrite an existing
// target is an ErrExists error and nothing after it is written. It returns
// the files it wrote, relative to outputDir.
func (te *TemplateEngine) GenerateFolder(templateRef TemplateRef, outputDir string, data interface{}, overwrite bool) ([]string, error) {
	if templateRef.IsFile() {
		return nil, fmt.Errorf("cannot generate folder from file reference: %s", templateRef.Path)
	}

	root := templateRef.embedPath()
	logger.Debug("Generating folder from template reference: %s", root)

	var written []string
	err := fs.WalkDir(TemplateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".tmpl")
		target := filepath.Join(outputDir, filepath.FromSlash(rel))
		if _, err := os.Stat(target); err == nil && !overwrite {
			return fmt.Errorf("%s: %w", target, ErrExists)
		}

		content, err := te.render(p, data)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		logger.Debug("Generated %s", rel)
		written = append(written, rel)
		return nil
	})
	return written, err
}

// render executes *.tmpl files and copies anything else verbatim.
func (te *TemplateEngine) render(embedPath string, data interface{}) ([]byte, error) {
	if !strings.HasSuffix(embedPath, ".tmpl") {
		return TemplateFS.ReadFile(embedPath)
	}
	tmpl, err := te.compile(embedPath)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", embedPath, err)
	}
	return buf.Bytes(), nil
}

func (te *TemplateEngine) ValidateTemplate(templateRef TemplateRef) error {
	info, err := fs.Stat(TemplateFS, templateRef.embedPath())
	if err != nil {
		return fmt.Errorf("template not found: %s", templateRef.Path)
	}

	if info.IsDir() != templateRef.IsDirectory() {
		return fmt.Errorf("template reference type mismatch for %s: expected dir=%t, got dir=%t",
			templateRef.Path, templateRef.IsDirectory(), info.IsDir())
	}

	return nil
}
