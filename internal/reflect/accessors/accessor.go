package accessors

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrArgCount     = errors.New("wrong number of arguments")
	ErrArgType      = errors.New("argument not assignable to parameter")
	ErrNotStatic    = errors.New("member requires a receiver")
	ErrNilReceiver  = errors.New("receiver is nil")
	ErrNotInvocable = errors.New("member has no function value")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// InvokeError is returned when the invoked function panics.
type InvokeError struct {
	Member string
	Value  any
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("invoke %s: panic: %v", e.Member, e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *InvokeError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

type ConstructorAccessor interface {
	Invoke(args ...any) (any, error)
	Member() Member
}

type MethodAccessor interface {
	// Invoke calls the method. target is ignored for static members.
	Invoke(target any, args ...any) (any, error)
	Member() Member
}

// Invoker turns declared members into accessors.
type Invoker interface {
	Constructor(m Member) (ConstructorAccessor, error)
	Method(m Member) (MethodAccessor, error)
}

// Default is the reflect based Invoker.
var Default Invoker = reflectInvoker{}

type reflectInvoker struct{}

func (reflectInvoker) Constructor(m Member) (ConstructorAccessor, error) {
	if !m.Func.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrNotInvocable, m.Name)
	}
	if !m.Static {
		return nil, fmt.Errorf("%w: %s", ErrNotStatic, m.Name)
	}
	return &constructorAccessor{m: m}, nil
}

func (reflectInvoker) Method(m Member) (MethodAccessor, error) {
	if !m.Func.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrNotInvocable, m.Name)
	}
	return &methodAccessor{m: m}, nil
}

// GetConstructorAccessor wraps m with the Default invoker.
func GetConstructorAccessor(m Member) (ConstructorAccessor, error) {
	return Default.Constructor(m)
}

// GetMethodAccessor wraps m with the Default invoker.
func GetMethodAccessor(m Member) (MethodAccessor, error) {
	return Default.Method(m)
}

type constructorAccessor struct {
	m Member
}

func (a *constructorAccessor) Member() Member { return a.m }

func (a *constructorAccessor) Invoke(args ...any) (any, error) {
	in, err := convertArgs(a.m.Func.Type(), 0, args)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", a.m.Name, err)
	}
	return call(a.m, in)
}

type methodAccessor struct {
	m Member
}

func (a *methodAccessor) Member() Member { return a.m }

func (a *methodAccessor) Invoke(target any, args ...any) (any, error) {
	if a.m.Static {
		in, err := convertArgs(a.m.Func.Type(), 0, args)
		if err != nil {
			return nil, fmt.Errorf("invoke %s: %w", a.m.Name, err)
		}
		return call(a.m, in)
	}

	ft := a.m.Func.Type()
	recv := reflect.ValueOf(target)
	if !recv.IsValid() {
		return nil, fmt.Errorf("invoke %s: %w", a.m.Name, ErrNilReceiver)
	}
	if !recv.Type().AssignableTo(ft.In(0)) {
		return nil, fmt.Errorf("invoke %s: receiver %s: %w", a.m.Name, recv.Type(), ErrArgType)
	}
	in, err := convertArgs(ft, 1, args)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", a.m.Name, err)
	}
	return call(a.m, append([]reflect.Value{recv}, in...))
}

// convertArgs maps args onto the parameters of ft starting at offset. A nil
// argument becomes the zero value of its parameter.
func convertArgs(ft reflect.Type, offset int, args []any) ([]reflect.Value, error) {
	if ft.IsVariadic() {
		return nil, fmt.Errorf("variadic functions are not supported: %w", ErrArgCount)
	}
	if ft.NumIn()-offset != len(args) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArgCount, ft.NumIn()-offset, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := ft.In(i + offset)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: %s to %s", ErrArgType, v.Type(), pt)
		}
		in[i] = v
	}
	return in, nil
}

func call(m Member, in []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InvokeError{Member: m.Name, Value: r}
		}
	}()

	out := m.Func.Call(in)
	if n := len(out); n > 1 && m.Func.Type().Out(n-1) == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return nil, e
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
