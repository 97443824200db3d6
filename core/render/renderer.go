// Package render turns normalized endpoint facts into Java source text.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/template_engine"
)

// Shape selects one of the four method layouts.
type Shape int

const (
	GetNoParams Shape = iota
	GetParams
	PostNoParams
	PostParams
)

func (s Shape) String() string {
	switch s {
	case GetNoParams:
		return "get"
	case GetParams:
		return "get+params"
	case PostNoParams:
		return "post"
	case PostParams:
		return "post+params"
	default:
		return "unknown"
	}
}

func ShapeOf(m models.Method) Shape {
	switch {
	case m.IsPost && m.HasParams():
		return PostParams
	case m.IsPost:
		return PostNoParams
	case m.HasParams():
		return GetParams
	default:
		return GetNoParams
	}
}

// Renderer executes pre-parsed templates; it holds no per-run state, so the
// same input always yields the same text.
type Renderer struct {
	resultType string
	methods    map[Shape]*template.Template
	class      *template.Template
}

type methodData struct {
	models.Method
	ResultType string
}

func New(engine *template_engine.TemplateEngine, resultType string) (*Renderer, error) {
	refs := map[Shape]template_engine.TemplateRef{
		GetNoParams:  template_engine.TEMPLATES.JAVA.GET_NO_PARAMS,
		GetParams:    template_engine.TEMPLATES.JAVA.GET_PARAMS,
		PostNoParams: template_engine.TEMPLATES.JAVA.POST_NO_PARAMS,
		PostParams:   template_engine.TEMPLATES.JAVA.POST_PARAMS,
	}

	r := &Renderer{
		resultType: resultType,
		methods:    make(map[Shape]*template.Template, len(refs)),
	}
	for shape, ref := range refs {
		tmpl, err := engine.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s template: %w", shape, err)
		}
		r.methods[shape] = tmpl
	}

	class, err := engine.Parse(template_engine.TEMPLATES.JAVA.CLASS)
	if err != nil {
		return nil, fmt.Errorf("failed to load class template: %w", err)
	}
	r.class = class

	return r, nil
}

func (r *Renderer) RenderMethod(m models.Method) (string, error) {
	var buf bytes.Buffer
	shape := ShapeOf(m)
	if err := r.methods[shape].Execute(&buf, methodData{Method: m, ResultType: r.resultType}); err != nil {
		return "", fmt.Errorf("failed to render %s method %s: %w", shape, m.Name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) RenderClass(unit models.ClassUnit) (string, error) {
	var buf bytes.Buffer
	if err := r.class.Execute(&buf, unit); err != nil {
		return "", fmt.Errorf("failed to render class %s: %w", unit.ClassName, err)
	}
	return buf.String(), nil
}
