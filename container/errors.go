package container

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrNotRegistered is matched by NotRegisteredError.
	ErrNotRegistered = errors.New("container: service not registered")

	// ErrInvalidDescriptor is matched by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("container: invalid descriptor")

	// ErrInvalidConstructor is returned when a constructor func has an unsupported signature.
	ErrInvalidConstructor = errors.New("container: invalid constructor")

	// ErrResolutionDepth is returned when nested resolution exceeds the configured depth.
	ErrResolutionDepth = errors.New("container: resolution depth exceeded")

	// ErrNilService is returned when a factory produces a nil value without an error.
	ErrNilService = errors.New("container: factory returned nil")
)

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// NotRegisteredError is returned by Get when a type has no registration.
type NotRegisteredError struct{ Type reflect.Type }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: container: service "*app.DB" not registered
	return "container: service " + strconv.Quote(typeName(e.Type)) + " not registered"
}

// Is reports ErrNotRegistered.
func (e NotRegisteredError) Is(target error) bool { return target == ErrNotRegistered }

// WrongTypeError is returned when a produced value is not assignable to the service type.
type WrongTypeError struct {
	Type reflect.Type

	// GotType is reflect.TypeOf(value).String() for the produced value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	// Example: container: service "app.Store" has wrong type (*app.Cache)
	return "container: service " + strconv.Quote(typeName(e.Type)) + " has wrong type (" + e.GotType + ")"
}

// InvalidDescriptorError reports the first descriptor Build rejected.
type InvalidDescriptorError struct {
	Index  int
	Type   reflect.Type
	Reason string
}

// Error implements the error interface.
func (e InvalidDescriptorError) Error() string {
	return "container: invalid descriptor #" + strconv.Itoa(e.Index) +
		" (" + typeName(e.Type) + "): " + e.Reason
}

// Is reports ErrInvalidDescriptor.
func (e InvalidDescriptorError) Is(target error) bool { return target == ErrInvalidDescriptor }

// UnsatisfiedConstructorError is returned when no constructor of an
// implementation type has all of its parameters registered.
type UnsatisfiedConstructorError struct {
	Type    reflect.Type
	Missing reflect.Type
}

// Error implements the error interface.
func (e UnsatisfiedConstructorError) Error() string {
	return "container: cannot construct " + strconv.Quote(typeName(e.Type)) +
		": parameter " + strconv.Quote(typeName(e.Missing)) + " not registered"
}

// Is reports ErrNotRegistered, since the root cause is a missing registration.
func (e UnsatisfiedConstructorError) Is(target error) bool { return target == ErrNotRegistered }
