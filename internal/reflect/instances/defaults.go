package instances

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnsupportedType = errors.New("no default value for type")
	ErrRecursionLimit  = errors.New("default value recursion limit reached")
)

// DefaultMaxDepth bounds how deep Defaults follows pointer and element types.
const DefaultMaxDepth = 20

// Provider synthesizes a default value for any type it can handle.
type Provider interface {
	Create(t reflect.Type) (any, error)
}

// Generator is one step of the Defaults chain. nested is used for element
// types and counts toward the recursion limit.
type Generator interface {
	Generate(t reflect.Type, nested Provider) (any, bool, error)
}

type GeneratorFunc func(t reflect.Type, nested Provider) (any, bool, error)

func (f GeneratorFunc) Generate(t reflect.Type, nested Provider) (any, bool, error) {
	return f(t, nested)
}

// Defaults asks each generator in turn until one handles the type.
type Defaults struct {
	generators []Generator
	maxDepth   int
}

type DefaultsOption func(*Defaults)

// WithValue makes v the default for t. v must be assignable to t.
func WithValue(t reflect.Type, v any) DefaultsOption {
	return WithGenerator(GeneratorFunc(func(want reflect.Type, _ Provider) (any, bool, error) {
		if want != t {
			return nil, false, nil
		}
		return v, true, nil
	}))
}

// WithGenerator puts g ahead of the built-in generators.
func WithGenerator(g Generator) DefaultsOption {
	return func(d *Defaults) {
		d.generators = append([]Generator{g}, d.generators...)
	}
}

func WithMaxDepth(depth int) DefaultsOption {
	return func(d *Defaults) {
		d.maxDepth = depth
	}
}

func NewDefaults(opts ...DefaultsOption) *Defaults {
	d := &Defaults{
		generators: []Generator{
			GeneratorFunc(primitiveDefault),
			GeneratorFunc(collectionDefault),
			GeneratorFunc(pointerDefault),
		},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultProvider is the provider used by creators built without WithProvider.
var DefaultProvider Provider = NewDefaults()

func (d *Defaults) Create(t reflect.Type) (any, error) {
	return d.create(t, 0)
}

func (d *Defaults) create(t reflect.Type, depth int) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrUnsupportedType)
	}
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: %s", ErrRecursionLimit, t)
	}
	nested := depthProvider{d: d, depth: depth + 1}
	for _, g := range d.generators {
		v, ok, err := g.Generate(t, nested)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

type depthProvider struct {
	d     *Defaults
	depth int
}

func (p depthProvider) Create(t reflect.Type) (any, error) {
	return p.d.create(t, p.depth)
}

func primitiveDefault(t reflect.Type, _ Provider) (any, bool, error) {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Array, reflect.Struct:
		return reflect.Zero(t).Interface(), true, nil
	}
	return nil, false, nil
}

func collectionDefault(t reflect.Type, _ Provider) (any, bool, error) {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface(), true, nil
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), true, nil
	}
	return nil, false, nil
}

func pointerDefault(t reflect.Type, nested Provider) (any, bool, error) {
	if t.Kind() != reflect.Pointer {
		return nil, false, nil
	}
	elem, err := nested.Create(t.Elem())
	if err != nil {
		return nil, false, err
	}
	ptr := reflect.New(t.Elem())
	if elem != nil {
		ptr.Elem().Set(reflect.ValueOf(elem))
	}
	return ptr.Interface(), true, nil
}
