package models

import "strings"

// Param is one formal argument of a declared endpoint method.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// EndpointDeclaration is the fact set the discovery pass yields for one
// annotated method. It is never mutated after discovery.
type EndpointDeclaration struct {
	Interface          string
	MethodName         string
	IsPost             bool
	RawURL             string
	DeclaredReturnType string
	DeclaredParams     []Param

	// Source is a "file:line" hint used in diagnostics.
	Source string
}

func (e EndpointDeclaration) Verb() string {
	if e.IsPost {
		return "POST"
	}
	return "GET"
}

// ApiInterface is an interface carrying the marker annotation, with its
// endpoints in declaration order.
type ApiInterface struct {
	Name      string
	Source    string
	Endpoints []EndpointDeclaration
}

func (a ApiInterface) SimpleName() string {
	if i := strings.LastIndex(a.Name, "."); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

type QueryDefault struct {
	Key   string
	Value string
}

// UrlTemplate is a raw URL split into its static path and the ordered
// query defaults that followed the first '?'.
type UrlTemplate struct {
	Path     string
	Defaults []QueryDefault
}

type ParamKind int

const (
	DeclaredParam ParamKind = iota
	DefaultParam
)

// ParamEntry is one member of a ParameterSet. Value is only meaningful for
// default parameters, where it is the literal taken from the template.
type ParamEntry struct {
	Name  string
	Kind  ParamKind
	Value string
}

func (p ParamEntry) IsDeclared() bool {
	return p.Kind == DeclaredParam
}

// ParameterSet holds declared parameters followed by template defaults.
type ParameterSet []ParamEntry

func (ps ParameterSet) Declared() []ParamEntry {
	out := make([]ParamEntry, 0, len(ps))
	for _, p := range ps {
		if p.IsDeclared() {
			out = append(out, p)
		}
	}
	return out
}

func (ps ParameterSet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// ModelReference names the response payload class. An empty QualifiedName
// means no payload; generated code passes null to the transport.
type ModelReference struct {
	QualifiedName string
	Synthesized   bool
}

func (m ModelReference) IsAbsent() bool {
	return m.QualifiedName == ""
}

// Method is everything the renderer needs for one generated method.
type Method struct {
	Name   string
	IsPost bool
	Path   string
	Params ParameterSet
	Model  ModelReference
}

func (m Method) HasParams() bool {
	return len(m.Params) > 0
}

// ClassUnit is the finalized content of the generated class.
type ClassUnit struct {
	Package       string
	ClassName     string
	TransportType string
	ResultType    string
	Imports       []string
	Parents       []string
	Methods       []string
}
