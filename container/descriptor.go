package container

import (
	"reflect"
	"strconv"
	"strings"
)

// Lifetime controls how long a resolved instance is reused.
type Lifetime uint8

const (
	// Singleton instances live as long as the Provider.
	Singleton Lifetime = iota
	// Scoped instances live as long as the Scope that resolved them.
	Scoped
	// Transient instances are never reused.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "lifetime(" + strconv.Itoa(int(l)) + ")"
	}
}

// Factory builds a service using the resolver that requested it.
type Factory func(r Resolver) (any, error)

// Descriptor is a single registration.
//
// Exactly one of ImplementationType, Factory and Instance must be set.
// Instance registrations are always treated as singletons.
type Descriptor struct {
	ServiceType        reflect.Type
	Lifetime           Lifetime
	ImplementationType reflect.Type
	Factory            Factory
	Instance           any
}

// ConcreteType is the type the registration actually produces, when known:
// the implementation type, the dynamic type of the instance, or the service
// type itself for factories.
func (d Descriptor) ConcreteType() reflect.Type {
	switch {
	case d.ImplementationType != nil:
		return d.ImplementationType
	case d.Instance != nil:
		return reflect.TypeOf(d.Instance)
	default:
		return d.ServiceType
	}
}

func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(typeName(d.ServiceType))
	b.WriteString(" [")
	b.WriteString(d.Lifetime.String())
	b.WriteString("] <- ")
	switch {
	case d.ImplementationType != nil:
		b.WriteString(typeName(d.ImplementationType))
	case d.Factory != nil:
		b.WriteString("factory")
	case d.Instance != nil:
		b.WriteString("instance")
	default:
		b.WriteString("nothing")
	}
	return b.String()
}

// validate returns a reason when d cannot be built, or "".
func (d Descriptor) validate() string {
	if d.ServiceType == nil {
		return "nil service type"
	}
	set := 0
	if d.ImplementationType != nil {
		set++
	}
	if d.Factory != nil {
		set++
	}
	if d.Instance != nil {
		set++
	}
	if set != 1 {
		return "exactly one of implementation type, factory or instance must be set"
	}
	if d.Lifetime > Transient {
		return "unknown lifetime " + d.Lifetime.String()
	}
	if d.ImplementationType != nil && !d.ImplementationType.AssignableTo(d.ServiceType) {
		return typeName(d.ImplementationType) + " is not assignable to the service type"
	}
	if d.Instance != nil && !reflect.TypeOf(d.Instance).AssignableTo(d.ServiceType) {
		return typeName(reflect.TypeOf(d.Instance)) + " instance is not assignable to the service type"
	}
	return ""
}

// Instance registers v as a singleton of type T.
func Instance[T any](v T) Descriptor {
	return Descriptor{ServiceType: reflect.TypeFor[T](), Lifetime: Singleton, Instance: v}
}

// Type registers T as its own implementation.
func Type[T any](lt Lifetime) Descriptor {
	t := reflect.TypeFor[T]()
	return Descriptor{ServiceType: t, Lifetime: lt, ImplementationType: t}
}

// Implementation registers TImpl as the implementation of TService.
// Assignability is checked by Build.
func Implementation[TService, TImpl any](lt Lifetime) Descriptor {
	return Descriptor{
		ServiceType:        reflect.TypeFor[TService](),
		Lifetime:           lt,
		ImplementationType: reflect.TypeFor[TImpl](),
	}
}

// Func registers a typed factory for T.
func Func[T any](lt Lifetime, f func(r Resolver) (T, error)) Descriptor {
	d := Descriptor{ServiceType: reflect.TypeFor[T](), Lifetime: lt}
	if f != nil {
		d.Factory = func(r Resolver) (any, error) { return f(r) }
	}
	return d
}
