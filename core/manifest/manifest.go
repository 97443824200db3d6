// Package manifest reads endpoint interfaces from YAML, as an alternative
// to scanning Java sources.
//
//	interfaces:
//	  - name: com.example.ApiService
//	    endpoints:
//	      - name: search            # optional, derived from verb and path
//	        get: search/?limit=10
//	        returns: Observable<Result>
//	        params: [query, {name: page, type: String}]
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/tristendillon/httpskin/core/models"
)

type Manifest struct {
	Interfaces []Interface `yaml:"interfaces"`
}

type Interface struct {
	Name      string     `yaml:"name"`
	Endpoints []Endpoint `yaml:"endpoints"`
}

type Endpoint struct {
	Name    string  `yaml:"name"`
	Get     *string `yaml:"get"`
	Post    *string `yaml:"post"`
	Returns string  `yaml:"returns"`
	Params  []Param `yaml:"params"`

	line int
}

func (e *Endpoint) UnmarshalYAML(node *yaml.Node) error {
	type plain Endpoint
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = node.Line
	return nil
}

// Param is written either as a bare name, which means a String parameter,
// or as a {name, type} mapping.
type Param models.Param

func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Name = node.Value
		p.Type = "String"
		return nil
	case yaml.MappingNode:
		var full struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		}
		if err := node.Decode(&full); err != nil {
			return err
		}
		p.Name = full.Name
		p.Type = full.Type
		if p.Type == "" {
			p.Type = "String"
		}
		return nil
	default:
		return fmt.Errorf("line %d: param must be a name or a {name, type} mapping", node.Line)
	}
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// DeriveName builds a method name such as getUserInfo from the verb and
// the path part of the URL.
func DeriveName(verb, rawURL string) string {
	path, _, _ := strings.Cut(rawURL, "?")
	words := strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(verb)+" "+path, " "))
	return strcase.ToLowerCamel(words)
}

func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, err
	}
	return &m, nil
}

// Load reads a manifest file into the same shape the Java scanner yields.
func Load(path, relPath string) (*models.ParsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", relPath, err)
	}
	parsed, err := Parse(data, relPath)
	if err != nil {
		return nil, err
	}
	parsed.Path = path
	return parsed, nil
}

func Parse(data []byte, relPath string) (*models.ParsedFile, error) {
	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", relPath, err)
	}
	return m.toParsedFile(relPath)
}

func (m *Manifest) toParsedFile(relPath string) (*models.ParsedFile, error) {
	parsed := &models.ParsedFile{RelPath: relPath}

	for i, iface := range m.Interfaces {
		if iface.Name == "" {
			return nil, fmt.Errorf("manifest %s: interface %d has no name", relPath, i)
		}
		api := models.ApiInterface{Name: iface.Name, Source: relPath}

		for _, e := range iface.Endpoints {
			where := fmt.Sprintf("%s:%d", relPath, e.line)
			decl := models.EndpointDeclaration{
				Interface:          iface.Name,
				MethodName:         e.Name,
				DeclaredReturnType: e.Returns,
				Source:             where,
			}

			switch {
			case e.Get != nil && e.Post != nil:
				parsed.Problems = append(parsed.Problems, fmt.Sprintf("endpoint sets both get and post -> at %s", where))
				continue
			case e.Get != nil:
				decl.RawURL = *e.Get
			case e.Post != nil:
				decl.RawURL = *e.Post
				decl.IsPost = true
			default:
				parsed.Problems = append(parsed.Problems, fmt.Sprintf("endpoint needs one of get or post -> at %s", where))
				continue
			}

			if decl.MethodName == "" {
				decl.MethodName = DeriveName(decl.Verb(), decl.RawURL)
			}
			for _, p := range e.Params {
				decl.DeclaredParams = append(decl.DeclaredParams, models.Param(p))
			}
			api.Endpoints = append(api.Endpoints, decl)
		}

		parsed.Interfaces = append(parsed.Interfaces, api)
	}

	return parsed, nil
}
