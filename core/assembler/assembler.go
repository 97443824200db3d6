// Package assembler accumulates rendered methods and parent interfaces into
// the single generated class of a run.
package assembler

import (
	"errors"

	"github.com/tristendillon/httpskin/core/models"
)

// ErrDoubleFinalization is returned when an accumulator is used after it
// has been finalized. It is a programming error and aborts the run.
var ErrDoubleFinalization = errors.New("generated class was already finalized")

type UnitRenderer interface {
	RenderClass(unit models.ClassUnit) (string, error)
}

// Header is the fixed part of the class: where it lives and what it
// depends on.
type Header struct {
	Package       string
	ClassName     string
	TransportType string
	ResultType    string
	Imports       []string
	DefaultParent string
}

// GeneratedClass is owned by exactly one run. It only grows until
// Finalize, after which every call fails.
type GeneratedClass struct {
	header    Header
	parents   []string
	seen      map[string]struct{}
	methods   []string
	finalized bool
}

func New(header Header) *GeneratedClass {
	return &GeneratedClass{
		header: header,
		seen:   make(map[string]struct{}),
	}
}

// AddParent records an implemented interface; repeats keep their first
// position.
func (c *GeneratedClass) AddParent(name string) error {
	if c.finalized {
		return ErrDoubleFinalization
	}
	if _, ok := c.seen[name]; ok {
		return nil
	}
	c.seen[name] = struct{}{}
	c.parents = append(c.parents, name)
	return nil
}

func (c *GeneratedClass) AddMethod(body string) error {
	if c.finalized {
		return ErrDoubleFinalization
	}
	c.methods = append(c.methods, body)
	return nil
}

func (c *GeneratedClass) MethodCount() int {
	return len(c.methods)
}

func (c *GeneratedClass) Parents() []string {
	return append([]string(nil), c.parents...)
}

// Unit is the content Finalize renders: discovered parents come first and
// the configured default parent last.
func (c *GeneratedClass) Unit() models.ClassUnit {
	parents := c.Parents()
	if p := c.header.DefaultParent; p != "" {
		if _, ok := c.seen[p]; !ok {
			parents = append(parents, p)
		}
	}
	return models.ClassUnit{
		Package:       c.header.Package,
		ClassName:     c.header.ClassName,
		TransportType: c.header.TransportType,
		ResultType:    c.header.ResultType,
		Imports:       append([]string(nil), c.header.Imports...),
		Parents:       parents,
		Methods:       append([]string(nil), c.methods...),
	}
}

func (c *GeneratedClass) Finalize(r UnitRenderer) (string, error) {
	if c.finalized {
		return "", ErrDoubleFinalization
	}
	source, err := r.RenderClass(c.Unit())
	if err != nil {
		return "", err
	}
	c.finalized = true
	return source, nil
}

func (c *GeneratedClass) Finalized() bool {
	return c.finalized
}
