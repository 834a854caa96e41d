package module

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sghaida/odimod/container"
)

var stringType = reflect.TypeFor[string]()

// Module is a named, composable bundle of registrations plus the dependencies
// it expects another module or the host to provide.
//
// A Module is itself a container.Collection, so it can be built directly or
// used as the target of another module's Apply. Its identity is its pointer:
// two modules with the same name are still different modules.
type Module struct {
	id    uuid.UUID
	name  string
	items []container.Descriptor
	deps  []reflect.Type
	state *State
	opts  options
}

var _ container.Collection = (*Module)(nil)

// New returns an empty module. Its own state already contains itself.
func New(name string, opts ...Option) *Module {
	m := &Module{
		id:    uuid.New(),
		name:  name,
		state: newState(),
		opts:  buildOptions(opts),
	}
	m.state.add(m)
	return m
}

// Must panics if err is non-nil and returns m otherwise.
// It is meant for package-level module definitions.
func Must(m *Module, err error) *Module {
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// ID returns a random identifier, useful for telling same-named modules apart in logs.
func (m *Module) ID() uuid.UUID { return m.id }

func (m *Module) String() string { return m.name }

func (m *Module) logger() *zerolog.Logger {
	l := m.opts.log.With().Str("module", m.name).Str("module_id", m.id.String()).Logger()
	return &l
}

// Add implements container.Collection.
func (m *Module) Add(ds ...container.Descriptor) {
	mu.Lock()
	m.items = append(m.items, ds...)
	mu.Unlock()
}

// Descriptors implements container.Collection.
func (m *Module) Descriptors() []container.Descriptor {
	mu.Lock()
	defer mu.Unlock()
	out := make([]container.Descriptor, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of registrations.
func (m *Module) Len() int {
	mu.Lock()
	defer mu.Unlock()
	return len(m.items)
}

// Dependencies returns the declared dependencies in declaration order.
// Duplicates are kept.
func (m *Module) Dependencies() []reflect.Type {
	mu.Lock()
	defer mu.Unlock()
	out := make([]reflect.Type, len(m.deps))
	copy(out, m.deps)
	return out
}

// AddDependency declares that t must be registered by whoever applies this module.
func (m *Module) AddDependency(t reflect.Type) (*Module, error) {
	return m, m.addDependencies(t)
}

// addDependencies declares ts together: if any is rejected, none is added.
func (m *Module) addDependencies(ts ...reflect.Type) error {
	for _, t := range ts {
		if t == nil {
			return ErrNilDependency
		}
		if t == stringType {
			return InvalidDependencyError{Type: t}
		}
	}
	mu.Lock()
	m.deps = append(m.deps, ts...)
	mu.Unlock()
	return nil
}

// Require declares T as a dependency of m.
func Require[T any](m *Module) (*Module, error) {
	return m.AddDependency(reflect.TypeFor[T]())
}

// Combine returns a new module named "<m>, <other>" holding both modules'
// registrations, m first. Modules already carried by m are not copied again
// from other.
func (m *Module) Combine(other *Module) *Module {
	c := New(m.name+", "+other.name, func(o *options) { *o = m.opts })
	mu.Lock()
	defer mu.Unlock()
	c.applyLocked(m)
	c.applyLocked(other)
	return c
}

// Apply copies m's registrations into target. Applying the same module to
// the same target again is a no-op.
//
// Which modules a plain collection has received is remembered until Forget
// is called for it, so short-lived targets should be forgotten once built.
func (m *Module) Apply(target container.Collection) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if tm, ok := target.(*Module); ok {
		mu.Lock()
		tm.applyLocked(m)
		mu.Unlock()
		return nil
	}

	mu.Lock()
	items := claimLocked(target, m)
	mu.Unlock()
	if len(items) > 0 {
		target.Add(items...)
	}
	return nil
}

// Apply applies each module to target in order.
func Apply(target container.Collection, mods ...*Module) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	for _, m := range mods {
		if m == nil {
			continue
		}
		if err := m.Apply(target); err != nil {
			return err
		}
	}
	return nil
}

// applyLocked merges src into m. Callers hold mu.
func (m *Module) applyLocked(src *Module) {
	if m.state.Contains(src) {
		return
	}
	m.state.combine(src.state)
	m.items = append(m.items, src.items...)
	src.logger().Debug().Str("target", m.name).Int("registrations", len(src.items)).Msg("module applied")
}

// claimLocked records src, and every module it carries, as applied to a
// plain collection and returns a copy of the registrations to add. It returns
// nil when src was already applied. Callers hold mu and must call target.Add
// after releasing it, since target may itself lock mu (for example a type
// embedding *Module).
func claimLocked(target container.Collection, src *Module) []container.Descriptor {
	s := stateLocked(target, true)
	if s.Contains(src) {
		src.logger().Debug().Msg("module already applied")
		return nil
	}
	s.combine(src.state)
	items := make([]container.Descriptor, len(src.items))
	copy(items, src.items)
	src.logger().Debug().Int("registrations", len(items)).Int("modules", s.Len()).Msg("module applied")
	return items
}
