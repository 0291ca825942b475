// Package instances builds values of types that are only known at runtime.
//
// A Creator is bound to one type. On its first use it probes every declared
// constructor, then every exported static function returning the type, and
// keeps the working candidate with the fewest parameters. Later calls reuse
// that candidate with freshly synthesized arguments. A type that cannot be
// built at all is remembered as such and never probed again.
package instances

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Versifine/protolib/internal/reflect/accessors"
)

var (
	ErrNilType   = errors.New("type cannot be nil")
	ErrNilResult = errors.New("candidate returned nil")
)

// Introspector enumerates the candidates of a type.
type Introspector interface {
	Constructors(t reflect.Type) []accessors.Member
	Methods(t reflect.Type) []accessors.Member
}

// StrategyKind tells which phase produced the cached strategy.
type StrategyKind int

const (
	KindConstructor StrategyKind = iota + 1
	KindFactory
)

func (k StrategyKind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindFactory:
		return "factory"
	default:
		return "none"
	}
}

// Strategy is the repeatable way a Creator builds its type.
type Strategy struct {
	Kind   StrategyKind
	Member accessors.Member
	Params []reflect.Type

	ctor    accessors.ConstructorAccessor
	factory accessors.MethodAccessor
}

func (s *Strategy) String() string {
	return fmt.Sprintf("%s %s", s.Kind, s.Member)
}

// outcome is published once. A nil strategy means the type cannot be built.
type outcome struct {
	strategy *Strategy
}

type attempt struct {
	instance any
	err      error
}

type Creator struct {
	typ       reflect.Type
	classes   Introspector
	invoker   accessors.Invoker
	provider  Provider
	banned    BannedTypes
	published atomic.Pointer[outcome]
	probes    singleflight.Group
}

type Option func(*Creator)

func WithProvider(p Provider) Option {
	return func(c *Creator) { c.provider = p }
}

func WithInvoker(inv accessors.Invoker) Option {
	return func(c *Creator) { c.invoker = inv }
}

func WithBanned(b BannedTypes) Option {
	return func(c *Creator) { c.banned = b }
}

// ForType binds a Creator to t. Candidates are enumerated through classes.
func ForType(t reflect.Type, classes Introspector, opts ...Option) (*Creator, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if classes == nil {
		return nil, errors.New("introspector cannot be nil")
	}
	c := &Creator{
		typ:      t,
		classes:  classes,
		invoker:  accessors.Default,
		provider: DefaultProvider,
		banned:   DefaultBanned,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Creator) Type() reflect.Type {
	return c.typ
}

// Strategy returns the cached strategy, or nil while unresolved or after a
// permanent failure.
func (c *Creator) Strategy() *Strategy {
	if o := c.published.Load(); o != nil {
		return o.strategy
	}
	return nil
}

// Failed reports whether the type was found to be impossible to build.
func (c *Creator) Failed() bool {
	o := c.published.Load()
	return o != nil && o.strategy == nil
}

// Get returns a new instance, or false when none can be built. A false
// result is an expected outcome and carries no error.
func (c *Creator) Get() (any, bool) {
	if o := c.published.Load(); o != nil {
		return c.fromOutcome(o)
	}

	v, _, shared := c.probes.Do("probe", func() (any, error) {
		if o := c.published.Load(); o != nil {
			inst, _ := c.fromOutcome(o)
			return inst, nil
		}
		inst, strategy := c.probe()
		c.published.CompareAndSwap(nil, &outcome{strategy: strategy})
		return inst, nil
	})
	if shared {
		// The probed instance went to several callers; build a private one.
		return c.fromOutcome(c.published.Load())
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// New is Get with the result converted to T.
func New[T any](c *Creator) (T, bool) {
	var zero T
	v, ok := c.Get()
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (c *Creator) fromOutcome(o *outcome) (any, bool) {
	if o == nil || o.strategy == nil {
		return nil, false
	}
	res := c.invoke(o.strategy)
	if res.err != nil {
		return nil, false
	}
	return res.instance, true
}

func (c *Creator) probe() (any, *Strategy) {
	if inst, s := c.probeConstructors(); s != nil {
		return inst, s
	}
	return c.probeFactories()
}

func (c *Creator) probeConstructors() (any, *Strategy) {
	var (
		result any
		best   *Strategy
	)
	for _, m := range c.classes.Constructors(c.typ) {
		params := m.Params()
		if best != nil && len(params) > len(best.Params) {
			continue
		}
		if c.banned.ContainsAny(params) {
			continue
		}
		acc, err := c.invoker.Constructor(m)
		if err != nil {
			continue
		}
		candidate := &Strategy{Kind: KindConstructor, Member: m, Params: params, ctor: acc}
		// Only a strictly smaller arity replaces the current best.
		if res := c.invoke(candidate); res.err == nil && (best == nil || len(params) < len(best.Params)) {
			result, best = res.instance, candidate
		}
	}
	return result, best
}

func (c *Creator) probeFactories() (any, *Strategy) {
	var (
		result any
		best   *Strategy
	)
	for _, m := range c.classes.Methods(c.typ) {
		if !m.Static || !m.Public() || m.Returns() != c.typ {
			continue
		}
		params := m.Params()
		if best != nil && len(params) > len(best.Params) {
			continue
		}
		if c.banned.ContainsAny(params) {
			continue
		}
		acc, err := c.invoker.Method(m)
		if err != nil {
			continue
		}
		candidate := &Strategy{Kind: KindFactory, Member: m, Params: params, factory: acc}
		// Only a strictly smaller arity replaces the current best.
		if res := c.invoke(candidate); res.err == nil && (best == nil || len(params) < len(best.Params)) {
			result, best = res.instance, candidate
		}
	}
	return result, best
}

// invoke synthesizes fresh arguments and calls the strategy once.
func (c *Creator) invoke(s *Strategy) attempt {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		v, err := c.provider.Create(p)
		if err != nil {
			return attempt{err: fmt.Errorf("parameter %d: %w", i, err)}
		}
		args[i] = v
	}

	var (
		v   any
		err error
	)
	switch s.Kind {
	case KindConstructor:
		v, err = s.ctor.Invoke(args...)
	case KindFactory:
		v, err = s.factory.Invoke(nil, args...)
	default:
		err = fmt.Errorf("unknown strategy kind %d", s.Kind)
	}
	if err != nil {
		return attempt{err: err}
	}
	if isNil(v) {
		return attempt{err: ErrNilResult}
	}
	return attempt{instance: v}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
