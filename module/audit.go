package module

import (
	"iter"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/sghaida/odimod/container"
)

// Dependant is a registered type whose constructor takes a missing
// dependency, paired with the name of the module that declared it.
type Dependant struct {
	Type   reflect.Type
	Module string
}

// Unresolved is one entry of a Report.
type Unresolved struct {
	Dependency reflect.Type
	Dependants []Dependant
}

type declared struct {
	m   *Module
	dep reflect.Type
}

type dependantKey struct {
	dep, dependant reflect.Type
}

// UnresolvedDependencies lists every dependency declared by the modules
// applied to target that target does not register.
//
// The sequence is lazy and restartable: each iteration snapshots target and
// recomputes. A type declared by two modules is yielded once per module.
// container.ResolverType is always considered registered.
func UnresolvedDependencies(target container.Collection, opts ...Option) iter.Seq2[reflect.Type, []Dependant] {
	return func(yield func(reflect.Type, []Dependant) bool) {
		if checkTarget(target) != nil {
			return
		}
		o := buildOptions(opts)

		mu.Lock()
		mods := stateLocked(target, false).Modules()
		mu.Unlock()
		if len(mods) == 0 {
			return
		}

		descs := target.Descriptors()
		registered := make(map[reflect.Type]struct{}, len(descs))
		for _, d := range descs {
			registered[d.ServiceType] = struct{}{}
		}

		// Scanning every registration's constructors is the expensive part,
		// so it only happens once something is actually missing.
		var index map[reflect.Type][]reflect.Type
		seen := map[declared]struct{}{}

		for _, m := range mods {
			for _, dep := range m.Dependencies() {
				key := declared{m: m, dep: dep}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				if dep == container.ResolverType {
					continue
				}
				if _, ok := registered[dep]; ok {
					continue
				}
				if index == nil {
					index = dependantIndex(descs, o.catalog)
				}

				dependants := make([]Dependant, 0, len(index[dep]))
				for _, t := range index[dep] {
					dependants = append(dependants, Dependant{Type: t, Module: m.name})
				}
				if !yield(dep, dependants) {
					return
				}
			}
		}
	}
}

// dependantIndex maps a parameter type to the registered concrete types whose
// constructors take it, de-duplicated and in registration order.
func dependantIndex(descs []container.Descriptor, cat *container.Constructors) map[reflect.Type][]reflect.Type {
	index := map[reflect.Type][]reflect.Type{}
	seen := map[dependantKey]struct{}{}
	for _, d := range descs {
		concrete := d.ConcreteType()
		for _, ctor := range cat.For(concrete) {
			for _, p := range ctor.Params() {
				k := dependantKey{dep: p, dependant: concrete}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				index[p] = append(index[p], concrete)
			}
		}
	}
	return index
}

// Report is a collected audit.
type Report struct {
	Entries []Unresolved
}

// Audit collects UnresolvedDependencies into a Report.
func Audit(target container.Collection, opts ...Option) Report {
	var r Report
	for dep, dependants := range UnresolvedDependencies(target, opts...) {
		r.Entries = append(r.Entries, Unresolved{Dependency: dep, Dependants: dependants})
	}
	return r
}

// OK reports whether nothing is missing.
func (r Report) OK() bool { return len(r.Entries) == 0 }

// Err returns *UnresolvedError when something is missing, nil otherwise.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &UnresolvedError{Entries: r.Entries}
}

type yamlDependant struct {
	Type   string `yaml:"type"`
	Module string `yaml:"module"`
}

type yamlEntry struct {
	Dependency string          `yaml:"dependency"`
	NeededBy   []yamlDependant `yaml:"needed_by,omitempty"`
}

// YAML renders the report for logs and startup failure messages.
func (r Report) YAML() ([]byte, error) {
	out := struct {
		Unresolved []yamlEntry `yaml:"unresolved"`
	}{Unresolved: make([]yamlEntry, 0, len(r.Entries))}

	for _, e := range r.Entries {
		ye := yamlEntry{Dependency: typeName(e.Dependency)}
		for _, d := range e.Dependants {
			ye.NeededBy = append(ye.NeededBy, yamlDependant{Type: typeName(d.Type), Module: d.Module})
		}
		out.Unresolved = append(out.Unresolved, ye)
	}
	return yaml.Marshal(out)
}
