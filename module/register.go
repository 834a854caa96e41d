package module

import (
	"errors"
	"reflect"

	"github.com/sghaida/odimod/container"
)

// Factory builds T from the active resolver. A nil Factory means "construct
// T through the container" and turns on dependency inference.
type Factory[T any] func(r container.Resolver) (T, error)

// AddScoped registers TImpl as scoped and TAbs as resolving to the same
// TImpl instance within a scope.
func AddScoped[TAbs, TImpl any](m *Module, factory Factory[TImpl]) (*Module, error) {
	return addShared[TAbs, TImpl](m, container.Scoped, factory)
}

// AddSingleton registers TImpl as a singleton and TAbs as resolving to it.
func AddSingleton[TAbs, TImpl any](m *Module, factory Factory[TImpl]) (*Module, error) {
	return addShared[TAbs, TImpl](m, container.Singleton, factory)
}

// AddTransient registers TImpl as transient and TAbs as resolving through
// it. Every resolution of TAbs builds exactly one new TImpl.
func AddTransient[TAbs, TImpl any](m *Module, factory Factory[TImpl]) (*Module, error) {
	return addShared[TAbs, TImpl](m, container.Transient, factory)
}

// AddScopedType registers T as its own scoped implementation.
func AddScopedType[T any](m *Module, factory Factory[T]) (*Module, error) {
	return addType(m, container.Scoped, factory)
}

// AddSingletonType registers T as its own singleton implementation.
func AddSingletonType[T any](m *Module, factory Factory[T]) (*Module, error) {
	return addType(m, container.Singleton, factory)
}

// AddTransientType registers T as its own transient implementation.
func AddTransientType[T any](m *Module, factory Factory[T]) (*Module, error) {
	return addType(m, container.Transient, factory)
}

// AddInstance registers a ready value as a singleton of type T. Nothing is inferred.
func AddInstance[T any](m *Module, v T) *Module {
	m.Add(container.Instance(v))
	return m
}

func addShared[TAbs, TImpl any](m *Module, lt container.Lifetime, factory Factory[TImpl]) (*Module, error) {
	abs, impl := reflect.TypeFor[TAbs](), reflect.TypeFor[TImpl]()
	if !impl.AssignableTo(abs) {
		return m, NotAssignableError{Abstraction: abs, Implementation: impl}
	}
	if _, err := addType(m, lt, factory); err != nil {
		return m, err
	}
	if abs == impl {
		return m, nil
	}
	m.Add(container.Descriptor{
		ServiceType: abs,
		Lifetime:    lt,
		Factory:     throughImplementation[TAbs](impl),
	})
	return m, nil
}

// throughImplementation resolves the abstraction by fetching the
// implementation from the active resolver, so the container's lifetime for
// the implementation decides instance sharing.
func throughImplementation[TAbs any](impl reflect.Type) container.Factory {
	abs := reflect.TypeFor[TAbs]()
	return func(r container.Resolver) (any, error) {
		v, ok, err := r.Resolve(impl)
		if err != nil {
			return nil, err
		}
		out, isAbs := v.(TAbs)
		if !ok || !isAbs {
			ce := &IdentityCastError{Abstraction: abs, Implementation: impl}
			if v != nil {
				ce.GotType = reflect.TypeOf(v).String()
			}
			panic(ce)
		}
		return out, nil
	}
}

func addType[T any](m *Module, lt container.Lifetime, factory Factory[T]) (*Module, error) {
	t := reflect.TypeFor[T]()
	d := container.Descriptor{ServiceType: t, Lifetime: lt}
	if factory != nil {
		d.Factory = func(r container.Resolver) (any, error) { return factory(r) }
		m.Add(d)
		return m, nil
	}
	if err := m.inferDependencies(t); err != nil {
		return m, err
	}
	d.ImplementationType = t
	m.Add(d)
	return m, nil
}

// inferDependencies declares the constructor parameters of t. An ambiguous
// constructor set is logged and skipped; it is not an error.
func (m *Module) inferDependencies(t reflect.Type) error {
	params, err := m.opts.inferrer.Dependencies(t)
	switch {
	case errors.Is(err, ErrAmbiguousConstructor):
		m.logger().Warn().Err(err).Str("type", t.String()).Msg("skipping dependency inference")
		return nil
	case err != nil:
		return err
	}
	return m.addDependencies(params...)
}
