package module

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrInvalidDependency is matched by InvalidDependencyError.
	ErrInvalidDependency = errors.New("module: invalid dependency")

	// ErrNilDependency is returned when a nil type is declared as a dependency.
	ErrNilDependency = errors.New("module: nil dependency type")

	// ErrNilTarget is returned when a module is applied to a nil collection.
	ErrNilTarget = errors.New("module: nil target collection")

	// ErrIncomparableTarget is returned when the target's dynamic type cannot
	// be used as a map key (for example a slice-backed collection value).
	ErrIncomparableTarget = errors.New("module: target collection is not comparable")

	// ErrNotAssignable is matched by NotAssignableError.
	ErrNotAssignable = errors.New("module: implementation not assignable to abstraction")

	// ErrAmbiguousConstructor is returned by inferrers when a type has more
	// than one constructor.
	ErrAmbiguousConstructor = errors.New("module: ambiguous constructor")

	// ErrUnresolved is matched by UnresolvedError.
	ErrUnresolved = errors.New("module: unresolved dependencies")
)

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// InvalidDependencyError is returned when a type cannot be declared as a dependency.
// Plain string is rejected: it is almost always a registration mistake.
type InvalidDependencyError struct{ Type reflect.Type }

// Error implements the error interface.
func (e InvalidDependencyError) Error() string {
	// Example: module: "string" is not a valid dependency
	return "module: " + strconv.Quote(typeName(e.Type)) + " is not a valid dependency"
}

// Is reports ErrInvalidDependency.
func (e InvalidDependencyError) Is(target error) bool { return target == ErrInvalidDependency }

// NotAssignableError is returned when an implementation does not satisfy its abstraction.
type NotAssignableError struct {
	Abstraction    reflect.Type
	Implementation reflect.Type
}

// Error implements the error interface.
func (e NotAssignableError) Error() string {
	return "module: " + strconv.Quote(typeName(e.Implementation)) +
		" is not assignable to " + strconv.Quote(typeName(e.Abstraction))
}

// Is reports ErrNotAssignable.
func (e NotAssignableError) Is(target error) bool { return target == ErrNotAssignable }

// AmbiguousConstructorError carries the type and constructor count behind ErrAmbiguousConstructor.
type AmbiguousConstructorError struct {
	Type  reflect.Type
	Count int
}

// Error implements the error interface.
func (e AmbiguousConstructorError) Error() string {
	return "module: could not determine the dependencies of " + strconv.Quote(typeName(e.Type)) +
		" as it has " + strconv.Itoa(e.Count) + " constructors"
}

// Is reports ErrAmbiguousConstructor.
func (e AmbiguousConstructorError) Is(target error) bool { return target == ErrAmbiguousConstructor }

// IdentityCastError is the panic value raised when an abstraction registered
// through its implementation resolves to something that is not the abstraction.
// It can only happen after a registration bug and is never returned as an error.
type IdentityCastError struct {
	Abstraction    reflect.Type
	Implementation reflect.Type
	// GotType is empty when the implementation was not registered at all.
	GotType string
}

// Error implements the error interface.
func (e *IdentityCastError) Error() string {
	got := e.GotType
	if got == "" {
		got = "nothing"
	}
	return "module: resolving " + strconv.Quote(typeName(e.Abstraction)) +
		" through " + strconv.Quote(typeName(e.Implementation)) + " produced " + got
}

// UnneededDependencyError is the panic value raised when a type marked with
// MarkUnneeded is resolved.
type UnneededDependencyError struct{ Type reflect.Type }

// Error implements the error interface.
func (e *UnneededDependencyError) Error() string {
	return "module: seems like " + strconv.Quote(typeName(e.Type)) + " is registered but is not needed"
}

// UnresolvedError is returned by Report.Err when the audit found missing registrations.
type UnresolvedError struct {
	Entries []Unresolved
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	msg := "module: " + strconv.Itoa(len(e.Entries)) + " unresolved dependencies:"
	for i, u := range e.Entries {
		if i > 0 {
			msg += ","
		}
		msg += " " + typeName(u.Dependency)
	}
	return msg
}

// Is reports ErrUnresolved.
func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }
