// Package modelref turns the declared return type of an endpoint into the
// fully qualified name of its response model.
package modelref

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tristendillon/httpskin/core/models"
	"github.com/tristendillon/httpskin/core/params"
)

// Types from java.lang never need a package, so they are not namespaced
// per endpoint.
var implicitTypes = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"Boolean", "Byte", "Character", "CharSequence", "Double", "Float",
		"Integer", "Long", "Number", "Object", "Short", "String",
		"StringBuffer", "StringBuilder", "Void",
	} {
		implicitTypes[name] = struct{}{}
	}
}

type UnsupportedModelError struct {
	Type string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model type %q: nested generics and wildcards are not supported", e.Type)
}

type Resolver struct {
	BasePackage string
	lower       cases.Caser
}

func NewResolver(basePackage string) *Resolver {
	return &Resolver{
		BasePackage: basePackage,
		lower:       cases.Lower(language.Und),
	}
}

// Resolve extracts the generic argument of declaredType and qualifies it.
// A type without a generic argument carries no payload and resolves to an
// absent reference.
func (r *Resolver) Resolve(declaredType, path string) (models.ModelReference, error) {
	declaredType = strings.TrimSpace(declaredType)

	open := strings.Index(declaredType, "<")
	end := strings.LastIndex(declaredType, ">")
	if open < 0 || end < open {
		return models.ModelReference{}, nil
	}

	candidate := strings.TrimSpace(declaredType[open+1 : end])
	if candidate == "" {
		return models.ModelReference{}, nil
	}
	if strings.ContainsAny(candidate, "<>?,& ") {
		return models.ModelReference{}, &UnsupportedModelError{Type: declaredType}
	}

	if strings.Contains(candidate, ".") {
		return models.ModelReference{QualifiedName: candidate}, nil
	}

	if _, ok := implicitTypes[strings.TrimRight(candidate, "[]")]; ok {
		return models.ModelReference{QualifiedName: candidate}, nil
	}

	return models.ModelReference{
		QualifiedName: r.SyntheticPackage(path) + "." + candidate,
		Synthesized:   true,
	}, nil
}

// SyntheticPackage derives a package for a model declared without one:
// "search/" under "kale.net.http" becomes "kale.net.http.search".
func (r *Resolver) SyntheticPackage(path string) string {
	var segments []string
	if r.BasePackage != "" {
		segments = append(segments, r.BasePackage)
	}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, packageSegment(r.lower.String(seg)))
	}
	return strings.Join(segments, ".")
}

// packageSegment keeps a path segment usable as a Java package name.
// Letters stay, including non-ASCII ones, which Java identifiers allow.
func packageSegment(seg string) string {
	var b strings.Builder
	for i, c := range seg {
		switch {
		case c == '_' || c == '$' || unicode.IsLetter(c):
			b.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	if params.IsKeyword(b.String()) {
		b.WriteRune('_')
	}
	return b.String()
}
