package accessors

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrNotFunc  = errors.New("declared member is not a function")
	ErrNoResult = errors.New("declared member has no result")
)

// Registry records the constructors and static functions declared for types.
// Declarations keep their order; that order is the enumeration order seen by
// callers of Constructors and Methods.
type Registry struct {
	mu      sync.RWMutex
	ctors   map[reflect.Type][]Member
	statics map[reflect.Type][]Member
}

func NewRegistry() *Registry {
	return &Registry{
		ctors:   make(map[reflect.Type][]Member),
		statics: make(map[reflect.Type][]Member),
	}
}

// DeclareConstructor declares fn as a constructor of the type of its first
// result. Unexported names are allowed; they are the non-public constructors.
func (r *Registry) DeclareConstructor(name string, fn any) error {
	m, err := funcMember(name, fn)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := m.Returns()
	r.ctors[t] = append(r.ctors[t], m)
	return nil
}

// DeclareFunc declares fn as a static function of t. Its result type does not
// have to be t.
func (r *Registry) DeclareFunc(t reflect.Type, name string, fn any) error {
	m, err := funcMember(name, fn)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statics[t] = append(r.statics[t], m)
	return nil
}

// Constructors returns the constructors declared for t.
func (r *Registry) Constructors(t reflect.Type) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Member(nil), r.ctors[t]...)
}

// Methods returns the static functions declared for t followed by the method
// set of t itself.
func (r *Registry) Methods(t reflect.Type) []Member {
	r.mu.RLock()
	out := append([]Member(nil), r.statics[t]...)
	r.mu.RUnlock()

	if t.Kind() == reflect.Interface {
		return out
	}
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		out = append(out, Member{Name: method.Name, Func: method.Func})
	}
	return out
}

func funcMember(name string, fn any) (Member, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Member{}, fmt.Errorf("%w: %s", ErrNotFunc, name)
	}
	if v.Type().NumOut() == 0 {
		return Member{}, fmt.Errorf("%w: %s", ErrNoResult, name)
	}
	return Member{Name: name, Func: v, Static: true}, nil
}
