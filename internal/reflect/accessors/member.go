// Package accessors wraps functions and methods discovered at runtime into
// invocable handles.
//
// Go has no constructors, so a type advertises the functions that build it
// through a Registry. The registry plays the role of a class descriptor: it
// lists the declared constructors and the declared methods of a type, and the
// accessors turn each of them into something that can be called with values
// produced at runtime.
package accessors

import (
	"go/token"
	"reflect"
)

// Member is a function or method declared on a type.
type Member struct {
	Name string
	Func reflect.Value
	// Static is false when Func takes the receiver as its first argument.
	Static bool
}

// Public reports whether the member follows the Go export rule.
func (m Member) Public() bool {
	return token.IsExported(m.Name)
}

// Params returns the parameter types, excluding the receiver.
func (m Member) Params() []reflect.Type {
	if !m.Func.IsValid() {
		return nil
	}
	ft := m.Func.Type()
	start := 0
	if !m.Static {
		start = 1
	}
	if ft.NumIn() < start {
		return nil
	}
	params := make([]reflect.Type, 0, ft.NumIn()-start)
	for i := start; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return params
}

// Returns is the first result type, or nil for a function without results.
func (m Member) Returns() reflect.Type {
	if !m.Func.IsValid() || m.Func.Type().NumOut() == 0 {
		return nil
	}
	return m.Func.Type().Out(0)
}

func (m Member) String() string {
	if !m.Func.IsValid() {
		return m.Name + "(?)"
	}
	s := m.Name + "("
	for i, p := range m.Params() {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}
