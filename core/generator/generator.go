// Package generator drives one generation run: every discovered endpoint is
// parsed, reconciled, resolved and rendered into a single class.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tristendillon/httpskin/core/assembler"
	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/modelref"
	"github.com/tristendillon/httpskin/core/params"
	"github.com/tristendillon/httpskin/core/render"
	"github.com/tristendillon/httpskin/core/template_engine"
	"github.com/tristendillon/httpskin/core/urltemplate"
)

const mapImport = "java.util.LinkedHashMap"

type Options struct {
	BasePackage     string
	ClassName       string
	TransportImport string
	ResultImport    string
	DefaultParent   string
}

func DefaultOptions() Options {
	return Options{
		BasePackage:     "kale.net.http",
		ClassName:       "HttpRequestEntity",
		TransportImport: "kale.net.http.impl.HttpRequest",
		ResultImport:    "rx.Observable",
		DefaultParent:   "java.io.Serializable",
	}
}

// OutputPath is the unit's slash separated path under the output root.
func (o Options) OutputPath() string {
	return strings.ReplaceAll(o.BasePackage, ".", "/") + "/" + o.ClassName + ".java"
}

func (o Options) imports() []string {
	var out []string
	seen := make(map[string]bool)
	for _, imp := range []string{o.TransportImport, mapImport, o.ResultImport} {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		out = append(out, imp)
	}
	return out
}

// ModelCollisionError means a model name synthesized for one endpoint is
// the same as a name another endpoint declared explicitly. The run is
// aborted because the two cannot be told apart in the generated code.
type ModelCollisionError struct {
	QualifiedName string
	Synthesized   string
	Declared      string
}

func (e *ModelCollisionError) Error() string {
	return fmt.Sprintf("model %s synthesized for %s collides with the type declared by %s",
		e.QualifiedName, e.Synthesized, e.Declared)
}

// DuplicateMethodError is reported when two endpoints share a signature.
// Every argument is a String, so name and arity identify one.
type DuplicateMethodError struct {
	Name  string
	Arity int
	First string
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("method %s with %d argument(s) is already generated for %s", e.Name, e.Arity, e.First)
}

func signature(decl models.EndpointDeclaration) string {
	return fmt.Sprintf("%s/%d", decl.MethodName, len(decl.DeclaredParams))
}

// MethodError is a per-method failure; the method is left out of the unit.
type MethodError struct {
	Interface string
	Method    string
	Source    string
	Err       error
}

func (e MethodError) Error() string {
	msg := fmt.Sprintf("%s.%s: %v", e.Interface, e.Method, e.Err)
	if e.Source != "" {
		msg += " -> at " + e.Source
	}
	return msg
}

func (e MethodError) Unwrap() error {
	return e.Err
}

type Result struct {
	Source     string
	Path       string
	Interfaces int
	Methods    int
	Skipped    []MethodError
}

func (r *Result) OK() bool {
	return len(r.Skipped) == 0
}

type Generator struct {
	opts     Options
	renderer *render.Renderer
	resolver *modelref.Resolver
	diag     Diagnostics
}

func New(opts Options, diag Diagnostics) (*Generator, error) {
	if diag == nil {
		diag = LoggerDiagnostics{}
	}
	renderer, err := render.New(template_engine.NewTemplateEngine(), simpleName(opts.ResultImport))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &Generator{
		opts:     opts,
		renderer: renderer,
		resolver: modelref.NewResolver(opts.BasePackage),
		diag:     diag,
	}, nil
}

func (g *Generator) Options() Options {
	return g.opts
}

// seenModel remembers which endpoint first used a qualified model name and
// whether the name was synthesized.
type seenModel struct {
	owner       string
	synthesized bool
}

type run struct {
	class   *assembler.GeneratedClass
	methods map[string]string // signature -> owner
	models  map[string]seenModel
	result  *Result
}

// Generate builds the unit for ifaces. Per-method problems are reported and
// collected in Result.Skipped; a returned error means nothing should be
// written.
func (g *Generator) Generate(ifaces []models.ApiInterface) (*Result, error) {
	r := &run{
		class: assembler.New(assembler.Header{
			Package:       g.opts.BasePackage,
			ClassName:     g.opts.ClassName,
			TransportType: simpleName(g.opts.TransportImport),
			ResultType:    simpleName(g.opts.ResultImport),
			Imports:       g.opts.imports(),
			DefaultParent: g.opts.DefaultParent,
		}),
		methods: make(map[string]string),
		models:  make(map[string]seenModel),
		result: &Result{
			Path:       g.opts.OutputPath(),
			Interfaces: len(ifaces),
		},
	}

	for _, iface := range ifaces {
		if err := r.class.AddParent(iface.Name); err != nil {
			return nil, err
		}
		for _, decl := range iface.Endpoints {
			if err := g.addEndpoint(r, decl); err != nil {
				var failure MethodError
				if errors.As(err, &failure) {
					g.diag.Error("%s", failure.Error())
					r.result.Skipped = append(r.result.Skipped, failure)
					continue
				}
				return nil, err
			}
		}
	}

	source, err := r.class.Finalize(g.renderer)
	if err != nil {
		return nil, err
	}
	r.result.Source = source
	r.result.Methods = r.class.MethodCount()
	return r.result, nil
}

func (g *Generator) addEndpoint(r *run, decl models.EndpointDeclaration) error {
	g.diag.Log("Working on method: %s", decl.MethodName)

	fail := func(err error) error {
		return MethodError{
			Interface: decl.Interface,
			Method:    decl.MethodName,
			Source:    decl.Source,
			Err:       err,
		}
	}

	owner := decl.Interface + "." + decl.MethodName
	if first, ok := r.methods[signature(decl)]; ok {
		return fail(&DuplicateMethodError{Name: decl.MethodName, Arity: len(decl.DeclaredParams), First: first})
	}
	if err := checkMethodName(decl.MethodName); err != nil {
		return fail(err)
	}

	tmpl, err := urltemplate.Parse(decl.RawURL)
	if err != nil {
		return fail(err)
	}
	set, err := params.Reconcile(decl.DeclaredParams, tmpl.Defaults)
	if err != nil {
		return fail(err)
	}
	model, err := g.resolver.Resolve(decl.DeclaredReturnType, tmpl.Path)
	if err != nil {
		return fail(err)
	}

	body, err := g.renderer.RenderMethod(models.Method{
		Name:   decl.MethodName,
		IsPost: decl.IsPost,
		Path:   tmpl.Path,
		Params: set,
		Model:  model,
	})
	if err != nil {
		return fail(err)
	}

	if !model.IsAbsent() {
		if prev, ok := r.models[model.QualifiedName]; ok && prev.synthesized != model.Synthesized {
			collision := &ModelCollisionError{QualifiedName: model.QualifiedName}
			if model.Synthesized {
				collision.Synthesized, collision.Declared = owner, prev.owner
			} else {
				collision.Synthesized, collision.Declared = prev.owner, owner
			}
			return collision
		} else if !ok {
			r.models[model.QualifiedName] = seenModel{owner: owner, synthesized: model.Synthesized}
		}
	}

	if err := r.class.AddMethod(body); err != nil {
		return err
	}
	r.methods[signature(decl)] = owner

	g.diag.Log("Parse method: %s completed", decl.MethodName)
	return nil
}

// InvalidMethodNameError is reported for a method name that cannot be
// declared in Java.
type InvalidMethodNameError struct {
	Name string
}

func (e *InvalidMethodNameError) Error() string {
	return fmt.Sprintf("invalid method name %q", e.Name)
}

func checkMethodName(name string) error {
	if !params.IsIdentifier(name) {
		return &InvalidMethodNameError{Name: name}
	}
	return nil
}

func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
