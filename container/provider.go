package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sghaida/odimod/internal/config/env"
)

// Resolver looks services up by type.
//
// An unregistered type is reported as (nil, false, nil); err is reserved for
// registrations that exist but could not be built.
type Resolver interface {
	Resolve(t reflect.Type) (val any, ok bool, err error)
}

// ResolverType is the container's self-reference. It is always resolvable and
// yields the active resolver.
var ResolverType = reflect.TypeFor[Resolver]()

// ErrNoConstructor is returned when an implementation type has no registered
// constructor and is not a struct or pointer to struct.
var ErrNoConstructor = errors.New("container: no constructor")

// DefaultMaxDepth bounds nested resolution when neither WithMaxDepth nor
// ODI_RESOLVE_MAX_DEPTH is set.
const DefaultMaxDepth = 128

type buildConfig struct {
	catalog  *Constructors
	maxDepth int
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithConstructors sets the catalog used to activate implementation types.
func WithConstructors(c *Constructors) BuildOption {
	return func(cfg *buildConfig) {
		if c != nil {
			cfg.catalog = c
		}
	}
}

// WithMaxDepth bounds nested resolution. Values below 1 are ignored.
func WithMaxDepth(n int) BuildOption {
	return func(cfg *buildConfig) {
		if n > 0 {
			cfg.maxDepth = n
		}
	}
}

// Provider resolves services from a validated snapshot of a Collection.
// It is safe for concurrent use. Concurrent first resolutions of a singleton
// or scoped service may each run its factory; one value is kept and the
// others are dropped without disposal.
type Provider struct {
	regs     map[reflect.Type]Descriptor
	catalog  *Constructors
	maxDepth int
	root     *Scope
}

// Scope caches scoped instances. Singletons are always cached on the root scope.
type Scope struct {
	p     *Provider
	mu    sync.Mutex
	cache map[reflect.Type]any
}

var (
	_ Resolver = (*Provider)(nil)
	_ Resolver = (*Scope)(nil)
)

// Build validates every descriptor of c and returns a Provider.
// When a service type is registered more than once the last registration wins.
func Build(c Collection, opts ...BuildOption) (*Provider, error) {
	cfg := buildConfig{
		catalog:  DefaultConstructors,
		maxDepth: env.New().Prefix("ODI_").GetInt("RESOLVE_MAX_DEPTH", DefaultMaxDepth),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.maxDepth < 1 {
		cfg.maxDepth = DefaultMaxDepth
	}

	ds := c.Descriptors()
	p := &Provider{
		regs:     make(map[reflect.Type]Descriptor, len(ds)),
		catalog:  cfg.catalog,
		maxDepth: cfg.maxDepth,
	}
	for i, d := range ds {
		if reason := d.validate(); reason != "" {
			return nil, InvalidDescriptorError{Index: i, Type: d.ServiceType, Reason: reason}
		}
		p.regs[d.ServiceType] = d
	}
	p.root = p.newScope()
	return p, nil
}

func (p *Provider) newScope() *Scope {
	return &Scope{p: p, cache: map[reflect.Type]any{}}
}

// CreateScope returns a new resolution scope.
func (p *Provider) CreateScope() *Scope { return p.newScope() }

// Resolve resolves t from the root scope.
func (p *Provider) Resolve(t reflect.Type) (any, bool, error) { return p.root.Resolve(t) }

// Registered reports whether t has a registration (ResolverType always does).
func (p *Provider) Registered(t reflect.Type) bool {
	if t == ResolverType {
		return true
	}
	_, ok := p.regs[t]
	return ok
}

// Resolve implements Resolver.
func (s *Scope) Resolve(t reflect.Type) (any, bool, error) { return s.resolve(t, 0) }

// resolution is the Resolver handed to factories; it carries the nesting depth.
type resolution struct {
	s     *Scope
	depth int
}

func (r resolution) Resolve(t reflect.Type) (any, bool, error) { return r.s.resolve(t, r.depth) }

func (s *Scope) resolve(t reflect.Type, depth int) (any, bool, error) {
	if t == ResolverType {
		return s, true, nil
	}
	if depth > s.p.maxDepth {
		return nil, false, fmt.Errorf("%w: resolving %s", ErrResolutionDepth, typeName(t))
	}
	d, ok := s.p.regs[t]
	if !ok {
		return nil, false, nil
	}
	if d.Instance != nil {
		return d.Instance, true, nil
	}

	var (
		v   any
		err error
	)
	switch d.Lifetime {
	case Singleton:
		v, err = s.p.root.getOrCreate(d, depth)
	case Scoped:
		v, err = s.getOrCreate(d, depth)
	default:
		v, err = s.create(d, depth)
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// getOrCreate does not hold the lock while constructing, so nested resolution
// cannot deadlock. If two goroutines race, the first stored value wins.
func (s *Scope) getOrCreate(d Descriptor, depth int) (any, error) {
	s.mu.Lock()
	v, ok := s.cache[d.ServiceType]
	s.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := s.create(d, depth)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[d.ServiceType]; ok {
		return existing, nil
	}
	s.cache[d.ServiceType] = v
	return v, nil
}

func (s *Scope) create(d Descriptor, depth int) (any, error) {
	var (
		v   any
		err error
	)
	if d.Factory != nil {
		v, err = d.Factory(resolution{s: s, depth: depth + 1})
	} else {
		v, err = s.activate(d.ImplementationType, depth+1)
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilService, typeName(d.ServiceType))
	}
	if got := reflect.TypeOf(v); !got.AssignableTo(d.ServiceType) {
		return nil, WrongTypeError{Type: d.ServiceType, GotType: got.String()}
	}
	return v, nil
}

// activate builds t with the satisfiable constructor that takes the most
// parameters, or as a zero value when t has no constructors.
func (s *Scope) activate(t reflect.Type, depth int) (any, error) {
	ctors := s.p.catalog.For(t)
	if len(ctors) == 0 {
		return zeroValue(t)
	}

	best := -1
	var missing reflect.Type
	for i, c := range ctors {
		if m := s.p.firstMissing(c); m != nil {
			if missing == nil {
				missing = m
			}
			continue
		}
		if best < 0 || len(c.params) > len(ctors[best].params) {
			best = i
		}
	}
	if best < 0 {
		return nil, UnsatisfiedConstructorError{Type: t, Missing: missing}
	}

	ctor := ctors[best]
	args := make([]reflect.Value, len(ctor.params))
	for i, pt := range ctor.params {
		v, ok, err := s.resolve(pt, depth)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, UnsatisfiedConstructorError{Type: t, Missing: pt}
		}
		if v == nil {
			args[i] = reflect.Zero(pt)
			continue
		}
		args[i] = reflect.ValueOf(v)
	}
	return ctor.call(args)
}

func (p *Provider) firstMissing(c Constructor) reflect.Type {
	for _, pt := range c.params {
		if !p.Registered(pt) {
			return pt
		}
	}
	return nil
}

func zeroValue(t reflect.Type) (any, error) {
	switch {
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Elem().Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %s is not a struct and has no registered constructor", ErrNoConstructor, typeName(t))
	}
}

// Get resolves T from r.
//
// It returns NotRegisteredError when T has no registration and WrongTypeError
// when the resolved value is not a T.
func Get[T any](r Resolver) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	v, ok, err := r.Resolve(t)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, NotRegisteredError{Type: t}
	}
	out, ok := v.(T)
	if !ok {
		return zero, WrongTypeError{Type: t, GotType: reflect.TypeOf(v).String()}
	}
	return out, nil
}

// MustGet resolves T from r or panics with the error Get would return.
func MustGet[T any](r Resolver) T {
	v, err := Get[T](r)
	if err != nil {
		panic(err)
	}
	return v
}
