package ast

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// constants holds the String constants visible from one interface, inner
// scopes first.
type constants struct {
	scopes []map[string]string
	values map[string]string
	busy   map[string]bool
}

func newConstants(scopes []map[string]string) *constants {
	return &constants{
		scopes: scopes,
		values: make(map[string]string),
		busy:   make(map[string]bool),
	}
}

func (c *constants) lookup(name string) (string, error) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if v, ok := c.values[name]; ok {
		return v, nil
	}
	if c.busy[name] {
		return "", errors.Errorf("constant '%s' refers to itself", name)
	}
	for _, scope := range c.scopes {
		raw, ok := scope[name]
		if !ok {
			continue
		}
		c.busy[name] = true
		v, err := c.eval(raw)
		delete(c.busy, name)
		if err != nil {
			return "", errors.Wrapf(err, "evaluating constant '%s'", name)
		}
		c.values[name] = v
		return v, nil
	}
	return "", errors.Errorf("unknown constant '%s'", name)
}

// eval computes a compile-time String expression made of literals,
// constant references and '+'.
func (c *constants) eval(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", errors.New("empty expression")
	}

	operands := splitTopLevel(expr, '+')
	if len(operands) > 1 {
		var b strings.Builder
		for _, op := range operands {
			v, err := c.eval(op)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
		}
		return b.String(), nil
	}

	switch {
	case strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")"):
		return c.eval(expr[1 : len(expr)-1])
	case strings.HasPrefix(expr, `"`):
		v, err := strconv.Unquote(expr)
		if err != nil {
			return "", errors.Wrapf(err, "bad string literal %s", expr)
		}
		return v, nil
	case identPattern.MatchString(expr):
		return c.lookup(expr)
	default:
		return "", errors.Errorf("unsupported expression '%s'", expr)
	}
}
