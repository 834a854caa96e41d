package container

import (
	"fmt"
	"reflect"
	"sync"
)

var errorType = reflect.TypeFor[error]()

// Constructor is a validated constructor func.
type Constructor struct {
	fn      reflect.Value
	out     reflect.Type
	params  []reflect.Type
	withErr bool
}

// Out is the type the constructor returns.
func (c Constructor) Out() reflect.Type { return c.out }

// Params returns the parameter types in declaration order.
func (c Constructor) Params() []reflect.Type {
	out := make([]reflect.Type, len(c.params))
	copy(out, c.params)
	return out
}

func (c Constructor) call(args []reflect.Value) (any, error) {
	res := c.fn.Call(args)
	if c.withErr && !res[1].IsNil() {
		return nil, res[1].Interface().(error)
	}
	return res[0].Interface(), nil
}

// NewConstructor validates fn. Accepted shapes are func(...) T and func(...) (T, error).
func NewConstructor(fn any) (Constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Constructor{}, fmt.Errorf("%w: %T is not a func", ErrInvalidConstructor, fn)
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return Constructor{}, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, ft)
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) != errorType:
	case ft.NumOut() == 2 && ft.Out(0) != errorType && ft.Out(1) == errorType:
	default:
		return Constructor{}, fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidConstructor, ft)
	}

	c := Constructor{fn: v, out: ft.Out(0), withErr: ft.NumOut() == 2}
	for i := 0; i < ft.NumIn(); i++ {
		c.params = append(c.params, ft.In(i))
	}
	return c, nil
}

// Constructors is a catalog of constructor funcs keyed by the type they return.
// A type may have several constructors; they are kept in registration order.
type Constructors struct {
	mu     sync.RWMutex
	byType map[reflect.Type][]Constructor
}

// NewConstructors returns an empty catalog.
func NewConstructors() *Constructors {
	return &Constructors{byType: map[reflect.Type][]Constructor{}}
}

// Register validates and adds constructor funcs. Nothing is added if any func is invalid.
func (c *Constructors) Register(fns ...any) error {
	parsed := make([]Constructor, 0, len(fns))
	for _, fn := range fns {
		ctor, err := NewConstructor(fn)
		if err != nil {
			return err
		}
		parsed = append(parsed, ctor)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ctor := range parsed {
		c.byType[ctor.out] = append(c.byType[ctor.out], ctor)
	}
	return nil
}

// For returns the constructors registered for t.
func (c *Constructors) For(t reflect.Type) []Constructor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := c.byType[t]
	if len(list) == 0 {
		return nil
	}
	out := make([]Constructor, len(list))
	copy(out, list)
	return out
}

// DefaultConstructors is the catalog used when none is configured.
var DefaultConstructors = NewConstructors()

// RegisterConstructor adds fns to DefaultConstructors and panics on an invalid func.
// It is meant for init functions and package-level var blocks.
func RegisterConstructor(fns ...any) {
	if err := DefaultConstructors.Register(fns...); err != nil {
		panic(err)
	}
}
