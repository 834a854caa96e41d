package module

import (
	"reflect"

	"github.com/sghaida/odimod/container"
)

// MarkUnneeded registers a singleton trap for T on c and returns c.
//
// Resolving T afterwards panics with *UnneededDependencyError. Use it to
// assert at wiring time that a dependency some constructor declares is never
// actually built. Because the trap is a registration, it also satisfies the
// audit for T.
func MarkUnneeded[T any, C container.Collection](c C) C {
	t := reflect.TypeFor[T]()
	c.Add(container.Descriptor{
		ServiceType: t,
		Lifetime:    container.Singleton,
		Factory: func(container.Resolver) (any, error) {
			panic(&UnneededDependencyError{Type: t})
		},
	})
	return c
}
