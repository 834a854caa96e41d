package module

import (
	"reflect"

	"github.com/sghaida/odimod/container"
)

// Inferrer returns the dependencies needed to construct t.
//
// Implementations return (nil, nil) when t needs nothing, and an error
// matching ErrAmbiguousConstructor when the dependencies cannot be determined
// because t can be built more than one way.
type Inferrer interface {
	Dependencies(t reflect.Type) ([]reflect.Type, error)
}

// InferrerFunc adapts a func to Inferrer.
type InferrerFunc func(t reflect.Type) ([]reflect.Type, error)

// Dependencies implements Inferrer.
func (f InferrerFunc) Dependencies(t reflect.Type) ([]reflect.Type, error) { return f(t) }

// ConstructorInferrer reads dependencies from the constructors registered for a type.
type ConstructorInferrer struct {
	Catalog *container.Constructors
}

// Dependencies implements Inferrer.
func (ci ConstructorInferrer) Dependencies(t reflect.Type) ([]reflect.Type, error) {
	cat := ci.Catalog
	if cat == nil {
		cat = container.DefaultConstructors
	}
	ctors := cat.For(t)
	switch len(ctors) {
	case 0:
		return nil, nil
	case 1:
		return ctors[0].Params(), nil
	default:
		return nil, AmbiguousConstructorError{Type: t, Count: len(ctors)}
	}
}

// NoInference never infers anything; every dependency must be declared.
var NoInference Inferrer = InferrerFunc(func(reflect.Type) ([]reflect.Type, error) { return nil, nil })
