package params

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tristendillon/httpskin/core/models"
)

func stringParams(names ...string) []models.Param {
	ps := make([]models.Param, len(names))
	for i, n := range names {
		ps[i] = models.Param{Name: n, Type: "java.lang.String"}
	}
	return ps
}

func TestReconcileOrder(t *testing.T) {
	set, err := Reconcile(stringParams("phone_number"), []models.QueryDefault{{Key: "site", Value: "phoneNumber"}})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	want := models.ParameterSet{
		{Name: "phone_number", Kind: models.DeclaredParam},
		{Name: "site", Kind: models.DefaultParam, Value: "phoneNumber"},
	}
	if !reflect.DeepEqual(set, want) {
		t.Errorf("Reconcile() = %+v, want %+v", set, want)
	}
	if got := set.Names(); !reflect.DeepEqual(got, []string{"phone_number", "site"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestReconcileDeclaredOnlyAndDefaultsOnly(t *testing.T) {
	set, err := Reconcile(stringParams("a", "b", "c"), nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got := set.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("declared only: Names() = %v", got)
	}

	set, err = Reconcile(nil, []models.QueryDefault{{Key: "user", Value: "aaaa3"}, {Key: "name", Value: "kale"}})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got := set.Names(); !reflect.DeepEqual(got, []string{"user", "name"}) {
		t.Errorf("defaults only: Names() = %v", got)
	}
	if len(set.Declared()) != 0 {
		t.Errorf("defaults only: Declared() = %v, want none", set.Declared())
	}

	set, err = Reconcile(nil, nil)
	if err != nil || len(set) != 0 {
		t.Errorf("empty: Reconcile() = %v, %v", set, err)
	}
}

func TestReconcileEmptyTypeMeansString(t *testing.T) {
	_, err := Reconcile([]models.Param{{Name: "q"}, {Name: "p", Type: "String"}}, nil)
	if err != nil {
		t.Errorf("Reconcile() error = %v", err)
	}
}

func TestReconcileErrors(t *testing.T) {
	tests := []struct {
		name     string
		declared []models.Param
		defaults []models.QueryDefault
		check    func(error) bool
	}{
		{
			name:     "declared collides with default",
			declared: stringParams("user"),
			defaults: []models.QueryDefault{{Key: "user", Value: "abc"}},
			check: func(err error) bool {
				var e *CollisionError
				return errors.As(err, &e) && e.Name == "user"
			},
		},
		{
			name:     "duplicate declared",
			declared: stringParams("a", "a"),
			check: func(err error) bool {
				var e *CollisionError
				return errors.As(err, &e)
			},
		},
		{
			name:     "duplicate default key",
			defaults: []models.QueryDefault{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}},
			check: func(err error) bool {
				var e *CollisionError
				return errors.As(err, &e)
			},
		},
		{
			name:     "int parameter",
			declared: []models.Param{{Name: "i", Type: "int"}},
			check: func(err error) bool {
				var e *UnsupportedTypeError
				return errors.As(err, &e) && e.Type == "int"
			},
		},
		{
			name:     "object parameter",
			declared: []models.Param{{Name: "obj", Type: "Object"}},
			check: func(err error) bool {
				var e *UnsupportedTypeError
				return errors.As(err, &e)
			},
		},
		{
			name:     "keyword name",
			declared: stringParams("class"),
			check: func(err error) bool {
				var e *InvalidNameError
				return errors.As(err, &e)
			},
		},
		{
			name:     "reserved name",
			declared: stringParams("requestParams"),
			check: func(err error) bool {
				var e *InvalidNameError
				return errors.As(err, &e)
			},
		},
		{
			name:     "not an identifier",
			declared: stringParams("rgb-color"),
			check: func(err error) bool {
				var e *InvalidNameError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Reconcile(tt.declared, tt.defaults)
			if err == nil {
				t.Fatalf("Reconcile() = %v, want error", set)
			}
			if !tt.check(err) {
				t.Errorf("Reconcile() error = %v (%T)", err, err)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	for name, want := range map[string]bool{
		"test_api00": true,
		"$x":         true,
		"_a":         true,
		"1abc":       false,
		"":           false,
		"int":        false,
		"a b":        false,
	} {
		if got := IsIdentifier(name); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", name, got, want)
		}
	}
}
