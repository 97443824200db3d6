// Package params merges the arguments a method declares with the defaults
// its URL template carries.
package params

import (
	"fmt"
	"regexp"

	"github.com/tristendillon/httpskin/core/models"
)

// Names the generated method body uses for itself. A parameter with one of
// these names would shadow them.
var ReservedNames = []string{"mHttpRequest", "requestParams"}

// SupportedTypes are the spellings accepted for a declared parameter.
var SupportedTypes = []string{"String", "java.lang.String"}

type CollisionError struct {
	Name string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("parameter %q is declared more than once (argument or url default)", e.Name)
}

type UnsupportedTypeError struct {
	Name string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("method's params must be String: %q is %s", e.Name, e.Type)
}

type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid parameter name %q: %s", e.Name, e.Reason)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var javaKeywords = map[string]struct{}{}

func init() {
	for _, kw := range []string{
		"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
		"class", "const", "continue", "default", "do", "double", "else", "enum",
		"extends", "final", "finally", "float", "for", "goto", "if", "implements",
		"import", "instanceof", "int", "interface", "long", "native", "new",
		"package", "private", "protected", "public", "return", "short", "static",
		"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
		"transient", "try", "void", "volatile", "while", "true", "false", "null",
		"var", "_",
	} {
		javaKeywords[kw] = struct{}{}
	}
}

// IsIdentifier reports whether name can be used as a Java identifier.
func IsIdentifier(name string) bool {
	if !identifierPattern.MatchString(name) {
		return false
	}
	return !IsKeyword(name)
}

// IsKeyword reports whether name is reserved in Java.
func IsKeyword(name string) bool {
	_, keyword := javaKeywords[name]
	return keyword
}

// IsSupportedType treats an empty type as the supported string type, which
// is what feeds without type information mean.
func IsSupportedType(typ string) bool {
	if typ == "" {
		return true
	}
	for _, t := range SupportedTypes {
		if typ == t {
			return true
		}
	}
	return false
}

// Reconcile returns declared ++ keys(defaults). Declared entries become
// method arguments; default entries keep their literal template value.
func Reconcile(declared []models.Param, defaults []models.QueryDefault) (models.ParameterSet, error) {
	set := make(models.ParameterSet, 0, len(declared)+len(defaults))
	seen := make(map[string]struct{}, len(declared)+len(defaults))

	for _, p := range declared {
		if !IsSupportedType(p.Type) {
			return nil, &UnsupportedTypeError{Name: p.Name, Type: p.Type}
		}
		if err := checkName(p.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, &CollisionError{Name: p.Name}
		}
		seen[p.Name] = struct{}{}
		set = append(set, models.ParamEntry{Name: p.Name, Kind: models.DeclaredParam})
	}

	for _, d := range defaults {
		if _, dup := seen[d.Key]; dup {
			return nil, &CollisionError{Name: d.Key}
		}
		seen[d.Key] = struct{}{}
		set = append(set, models.ParamEntry{Name: d.Key, Kind: models.DefaultParam, Value: d.Value})
	}

	return set, nil
}

func checkName(name string) error {
	if !identifierPattern.MatchString(name) {
		return &InvalidNameError{Name: name, Reason: "not a Java identifier"}
	}
	if _, keyword := javaKeywords[name]; keyword {
		return &InvalidNameError{Name: name, Reason: "Java keyword"}
	}
	for _, reserved := range ReservedNames {
		if name == reserved {
			return &InvalidNameError{Name: name, Reason: "reserved by the generated class"}
		}
	}
	return nil
}
