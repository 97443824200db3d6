// Package ast scans Java sources for endpoint interfaces. It is a
// lightweight, regex driven scanner: it understands the declarations this
// tool consumes and nothing else.
package ast

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/models"
)

var (
	packagePattern   = regexp.MustCompile(`\bpackage\s+([\w.]+)\s*;`)
	importPattern    = regexp.MustCompile(`\bimport\s+(static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	interfacePattern = regexp.MustCompile(`\binterface\s+(\w+)[^{;]*\{`)
	markerPattern    = regexp.MustCompile(`@(?:[\w.]+\.)?ApiInterface\b`)
	constantPattern  = regexp.MustCompile(`(?:\b(?:public|static|final)\s+)*\b(?:java\.lang\.)?String\s+(\w+)\s*=\s*((?:[^;"]|"(?:[^"\\\n]|\\.)*")+);`)
	endpointPattern  = regexp.MustCompile(`@(?:[\w.]+\.)?(HttpGet|HttpPost)\b(?:\s*\(((?:[^()"]|"(?:[^"\\\n]|\\.)*")*)\))?([^;{}()]*)\(`)
	valueAttrPattern = regexp.MustCompile(`(?s)^\s*(\w+)\s*=\s*(.*)$`)
	identPattern     = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)
	typeNamePattern  = regexp.MustCompile(`[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*`)
	typeDeclPattern  = regexp.MustCompile(`\b(?:class|interface|enum|record)\s+([A-Za-z_$][\w$]*)`)
)

var modifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "abstract": true,
	"default": true, "static": true, "final": true, "synchronized": true,
}

// span is one interface declaration: [open, close] are its braces.
type span struct {
	name      string
	qualified string
	marked    bool
	open      int
	close     int
	line      int
	constants map[string]string
}

func (s span) contains(offset int) bool {
	return offset > s.open && offset < s.close
}

// ParseJava reads and scans one Java source file.
func ParseJava(path, relPath string) (*models.ParsedFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", relPath)
	}
	parsed, err := ParseJavaSource(string(src), relPath)
	if err != nil {
		return nil, err
	}
	parsed.Path = path
	return parsed, nil
}

// ParseJavaSource scans src. Interfaces marked with @ApiInterface are
// returned with their annotated methods in declaration order; annotation
// misuse is reported in Problems rather than failing the whole file.
func ParseJavaSource(src, relPath string) (*models.ParsedFile, error) {
	clean := stripComments(src)

	parsed := &models.ParsedFile{
		RelPath: relPath,
		Package: firstGroup(packagePattern, clean),
	}

	imports := make(map[string]string)
	for _, m := range importPattern.FindAllStringSubmatch(clean, -1) {
		if m[1] != "" {
			continue
		}
		parsed.Imports = append(parsed.Imports, m[2])
		if !strings.HasSuffix(m[2], ".*") {
			imports[simpleName(m[2])] = m[2]
		}
	}

	for _, name := range topLevelTypes(clean) {
		if parsed.Package != "" {
			name = parsed.Package + "." + name
		}
		parsed.Types = append(parsed.Types, name)
	}

	spans, err := findInterfaces(clean, parsed.Package)
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", relPath)
	}
	logger.Debug("Scanning %s: %d interfaces", relPath, len(spans))

	endpoints := make(map[int][]models.EndpointDeclaration)
	for _, m := range endpointPattern.FindAllStringSubmatchIndex(clean, -1) {
		offset := m[0]
		line := lineAt(clean, offset)
		where := fmt.Sprintf("%s:%d", relPath, line)

		annotation := clean[m[2]:m[3]]
		var value string
		if m[4] >= 0 {
			value = clean[m[4]:m[5]]
		}
		header := clean[m[6]:m[7]]

		returnType, methodName := splitHeader(header)
		if methodName == "" {
			parsed.Problems = append(parsed.Problems, fmt.Sprintf("cannot read method after @%s -> at %s", annotation, where))
			continue
		}
		closeParen := matchParen(clean, m[1]-1)
		if closeParen < 0 {
			parsed.Problems = append(parsed.Problems, fmt.Sprintf("cannot read parameters of %s -> at %s", methodName, where))
			continue
		}
		paramList := clean[m[1]:closeParen]

		chain := enclosing(spans, offset)
		if len(chain) == 0 {
			parsed.Problems = append(parsed.Problems, fmt.Sprintf("@%s on %s outside of an interface -> at %s", annotation, methodName, where))
			continue
		}
		owner := spans[chain[0]]
		if !owner.marked {
			parsed.Problems = append(parsed.Problems, fmt.Sprintf("Should use @ApiInterface on %s (method %s) -> at %s", owner.qualified, methodName, where))
			continue
		}

		scopes := make([]map[string]string, len(chain))
		for i, idx := range chain {
			scopes[i] = spans[idx].constants
		}
		url, err := annotationValue(value, newConstants(scopes))
		if err != nil {
			parsed.Problems = append(parsed.Problems, fmt.Sprintf("@%s on %s: %v -> at %s", annotation, methodName, err, where))
			continue
		}

		decl := models.EndpointDeclaration{
			Interface:          owner.qualified,
			MethodName:         methodName,
			IsPost:             annotation == "HttpPost",
			RawURL:             url,
			DeclaredReturnType: qualifyType(returnType, imports),
			Source:             where,
		}
		for _, p := range splitParams(paramList) {
			decl.DeclaredParams = append(decl.DeclaredParams, models.Param{
				Name: p.Name,
				Type: qualifyType(p.Type, imports),
			})
		}
		endpoints[chain[0]] = append(endpoints[chain[0]], decl)
		logger.Debug("Found %s %s -> %q in %s", decl.Verb(), decl.MethodName, decl.RawURL, owner.qualified)
	}

	for i, s := range spans {
		if !s.marked {
			continue
		}
		parsed.Interfaces = append(parsed.Interfaces, models.ApiInterface{
			Name:      s.qualified,
			Source:    fmt.Sprintf("%s:%d", relPath, s.line),
			Endpoints: endpoints[i],
		})
	}

	return parsed, nil
}

// findInterfaces locates interface declarations in source order, with
// nested ones qualified through their enclosing interface.
func findInterfaces(clean, pkg string) ([]span, error) {
	var spans []span
	for _, m := range interfacePattern.FindAllStringSubmatchIndex(clean, -1) {
		// @interface declares an annotation type.
		if at := strings.LastIndexFunc(clean[:m[0]], func(r rune) bool { return r != ' ' && r != '\t' }); at >= 0 && clean[at] == '@' {
			continue
		}
		open := m[1] - 1
		end := matchBrace(clean, open)
		if end < 0 {
			return nil, errors.Errorf("unbalanced braces in interface %s", clean[m[2]:m[3]])
		}
		spans = append(spans, span{
			name:   clean[m[2]:m[3]],
			marked: markerPattern.MatchString(declarationHeader(clean, m[0])),
			open:   open,
			close:  end,
			line:   lineAt(clean, m[2]),
		})
	}

	// Qualify with the chain of enclosing interfaces.
	for i := range spans {
		names := []string{spans[i].name}
		for _, idx := range enclosing(spans, spans[i].open) {
			names = append([]string{spans[idx].name}, names...)
		}
		qualified := strings.Join(names, ".")
		if pkg != "" {
			qualified = pkg + "." + qualified
		}
		spans[i].qualified = qualified
	}

	for _, m := range constantPattern.FindAllStringSubmatchIndex(clean, -1) {
		chain := enclosing(spans, m[0])
		if len(chain) == 0 {
			continue
		}
		s := &spans[chain[0]]
		if s.constants == nil {
			s.constants = make(map[string]string)
		}
		s.constants[clean[m[2]:m[3]]] = clean[m[4]:m[5]]
	}

	return spans, nil
}

// topLevelTypes lists the type names declared outside of any braces.
func topLevelTypes(clean string) []string {
	var names []string
	depth, pos := 0, 0
	for _, m := range typeDeclPattern.FindAllStringSubmatchIndex(clean, -1) {
		for ; pos < m[0]; pos++ {
			switch clean[pos] {
			case '"', '\'':
				pos = literalEnd(clean, pos) - 1
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		if depth == 0 {
			names = append(names, clean[m[2]:m[3]])
		}
	}
	return names
}

// declarationHeader is the text between the previous statement or block
// boundary and a declaration: its annotations and modifiers.
func declarationHeader(clean string, at int) string {
	start := strings.LastIndexAny(clean[:at], ";{}")
	return clean[start+1 : at]
}

// enclosing returns the indexes of the spans containing offset, innermost
// first.
func enclosing(spans []span, offset int) []int {
	var chain []int
	for i, s := range spans {
		if s.contains(offset) {
			chain = append(chain, i)
		}
	}
	sort.Slice(chain, func(a, b int) bool {
		return spans[chain[a]].open > spans[chain[b]].open
	})
	return chain
}

// annotationValue evaluates the argument of @HttpGet / @HttpPost. A missing
// argument yields an empty URL, which generation reports.
func annotationValue(arg string, consts *constants) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", nil
	}
	if m := valueAttrPattern.FindStringSubmatch(arg); m != nil && !strings.HasPrefix(arg, `"`) {
		if m[1] != "value" {
			return "", errors.Errorf("unsupported attribute '%s'", m[1])
		}
		arg = m[2]
	}
	return consts.eval(arg)
}

// splitHeader separates "public Observable<Foo> name" into its return type
// and method name, dropping annotations, modifiers and a leading type
// parameter clause such as "<T extends Foo>".
func splitHeader(header string) (string, string) {
	var tokens []string
	for _, tok := range strings.Fields(stripAnnotations(header)) {
		if modifiers[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	tokens = dropTypeParams(tokens)
	if len(tokens) < 2 || !identPattern.MatchString(tokens[len(tokens)-1]) {
		return "", ""
	}
	return strings.Join(tokens[:len(tokens)-1], ""), tokens[len(tokens)-1]
}

// dropTypeParams removes a type parameter clause at the front of tokens.
func dropTypeParams(tokens []string) []string {
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], "<") {
		return tokens
	}
	joined := strings.Join(tokens, " ")
	depth := 0
	for i := 0; i < len(joined); i++ {
		switch joined[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return strings.Fields(joined[i+1:])
			}
		}
	}
	return tokens
}

func splitParams(list string) []models.Param {
	list = stripAnnotations(list)
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var out []models.Param
	for _, raw := range splitTopLevel(list, ',') {
		var tokens []string
		for _, tok := range strings.Fields(raw) {
			if tok == "final" {
				continue
			}
			tokens = append(tokens, tok)
		}
		if len(tokens) == 0 {
			continue
		}
		p := models.Param{Name: tokens[len(tokens)-1]}
		if len(tokens) > 1 {
			p.Type = strings.Join(tokens[:len(tokens)-1], "")
		}
		out = append(out, p)
	}
	return out
}

// qualifyType rewrites simple type names that the file imports into their
// qualified form, the way a compiler reports resolved types. Names it
// cannot resolve stay as written.
func qualifyType(typ string, imports map[string]string) string {
	return typeNamePattern.ReplaceAllStringFunc(typ, func(name string) string {
		if strings.Contains(name, ".") {
			return name
		}
		if q, ok := imports[name]; ok {
			return q
		}
		return name
	})
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func simpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
