package template_engine

import "embed"

//go:embed templates
var TemplateFS embed.FS

type javaTemplates struct {
	Ref            TemplateRef
	CLASS          TemplateRef
	GET_NO_PARAMS  TemplateRef
	GET_PARAMS     TemplateRef
	POST_NO_PARAMS TemplateRef
	POST_PARAMS    TemplateRef
}

type initTemplates struct {
	Ref TemplateRef
}

var TEMPLATES = struct {
	JAVA javaTemplates
	INIT initTemplates
}{
	JAVA: javaTemplates{
		Ref:            TemplateRef{Path: "java", IsDir: true},
		CLASS:          TemplateRef{Path: "java/class.java.tmpl"},
		GET_NO_PARAMS:  TemplateRef{Path: "java/get_no_params.java.tmpl"},
		GET_PARAMS:     TemplateRef{Path: "java/get_params.java.tmpl"},
		POST_NO_PARAMS: TemplateRef{Path: "java/post_no_params.java.tmpl"},
		POST_PARAMS:    TemplateRef{Path: "java/post_params.java.tmpl"},
	},
	INIT: initTemplates{
		Ref: TemplateRef{Path: "init", IsDir: true},
	},
}
