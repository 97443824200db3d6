// Package openapi describes the generated client surface as an OpenAPI 3
// document, so the same endpoint declarations can feed other tooling.
package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"

	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/modelref"
	"github.com/tristendillon/httpskin/core/params"
	"github.com/tristendillon/httpskin/core/urltemplate"
)

const formContentType = "application/x-www-form-urlencoded"

type Options struct {
	Title       string
	Version     string
	BasePackage string
}

// EndpointError is an endpoint left out of the document.
type EndpointError struct {
	Interface string
	Method    string
	Err       error
}

func (e EndpointError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Interface, e.Method, e.Err)
}

func (e EndpointError) Unwrap() error {
	return e.Err
}

// Build creates one operation per endpoint. Declared parameters are
// required; template defaults become optional parameters with a default
// value, in the query for GET and in the form body for POST. Endpoints
// that would not generate are returned as errors and left out.
func Build(ifaces []models.ApiInterface, opts Options) (*openapi3.T, []EndpointError) {
	resolver := modelref.NewResolver(opts.BasePackage)
	paths := openapi3.Paths{}
	seen := make(map[string]bool)
	var skipped []EndpointError

	for _, iface := range ifaces {
		for _, decl := range iface.Endpoints {
			fail := func(err error) {
				skipped = append(skipped, EndpointError{Interface: iface.Name, Method: decl.MethodName, Err: err})
			}

			if seen[decl.MethodName] {
				fail(fmt.Errorf("duplicate operation id %s", decl.MethodName))
				continue
			}
			tmpl, err := urltemplate.Parse(decl.RawURL)
			if err != nil {
				fail(err)
				continue
			}
			set, err := params.Reconcile(decl.DeclaredParams, tmpl.Defaults)
			if err != nil {
				fail(err)
				continue
			}
			model, err := resolver.Resolve(decl.DeclaredReturnType, tmpl.Path)
			if err != nil {
				fail(err)
				continue
			}

			key := pathKey(tmpl.Path)
			item := paths[key]
			if item == nil {
				item = &openapi3.PathItem{}
				paths[key] = item
			}
			if item.GetOperation(decl.Verb()) != nil {
				fail(fmt.Errorf("%s %s is already described", decl.Verb(), key))
				continue
			}

			item.SetOperation(decl.Verb(), operation(iface, decl, set, model))
			seen[decl.MethodName] = true
		}
	}

	title := opts.Title
	if title == "" {
		title = opts.BasePackage
	}
	version := opts.Version
	if version == "" {
		version = "1-autogen"
	}

	root := &openapi3.T{}
	root.OpenAPI = "3.0.3"
	root.Info = &openapi3.Info{Title: title, Version: version}
	root.Paths = paths
	root.Components = openapi3.NewComponents()
	return root, skipped
}

func operation(iface models.ApiInterface, decl models.EndpointDeclaration, set models.ParameterSet, model models.ModelReference) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = decl.MethodName
	op.Tags = []string{iface.SimpleName()}
	op.Summary = fmt.Sprintf("%s.%s", iface.SimpleName(), decl.MethodName)

	if decl.IsPost && len(set) > 0 {
		form := openapi3.NewObjectSchema()
		for _, p := range set {
			form = form.WithProperty(p.Name, paramSchema(p))
			if p.IsDeclared() {
				form.Required = append(form.Required, p.Name)
			}
		}
		body := openapi3.NewRequestBody()
		body.Required = true
		body.Content = openapi3.Content{
			formContentType: openapi3.NewMediaType().WithSchema(form),
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	} else {
		for _, p := range set {
			op.AddParameter(openapi3.NewQueryParameter(p.Name).
				WithSchema(paramSchema(p)).
				WithRequired(p.IsDeclared()))
		}
	}

	rsp := openapi3.NewResponse()
	if model.IsAbsent() {
		rsp = rsp.WithDescription("success, no payload class")
	} else {
		rsp = rsp.WithDescription(model.QualifiedName)
		schema := openapi3.NewObjectSchema()
		schema.Title = model.QualifiedName
		rsp.Content = openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("", schema))
	}
	op.AddResponse(200, rsp)

	return op
}

func paramSchema(p models.ParamEntry) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if !p.IsDeclared() {
		s.Default = p.Value
	}
	return s
}

// pathKey is the document key for a relative endpoint path.
func pathKey(path string) string {
	return "/" + strings.TrimPrefix(path, "/")
}

// Marshal encodes doc as "json" (the default) or "yaml".
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}

	switch strings.ToLower(format) {
	case "", "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert openapi document to yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q, want json or yaml", format)
	}
}
