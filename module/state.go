package module

import (
	"reflect"
	"sync"

	"github.com/sghaida/odimod/container"
)

// mu guards every module's descriptor list, every State and the states table.
var mu sync.Mutex

// states records which modules have been applied to each non-module target.
// Modules keep their own State.
var states = map[container.Collection]*State{}

// State is the set of modules merged into one target, in first-applied order.
type State struct {
	order []*Module
	seen  map[*Module]struct{}
}

func newState() *State {
	return &State{seen: map[*Module]struct{}{}}
}

// Contains reports whether m has been applied.
func (s *State) Contains(m *Module) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[m]
	return ok
}

// Modules returns the applied modules in first-applied order.
func (s *State) Modules() []*Module {
	if s == nil {
		return nil
	}
	out := make([]*Module, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of applied modules.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *State) add(m *Module) {
	if _, ok := s.seen[m]; ok {
		return
	}
	s.seen[m] = struct{}{}
	s.order = append(s.order, m)
}

// combine is a set union.
func (s *State) combine(other *State) {
	for _, m := range other.order {
		s.add(m)
	}
}

func (s *State) clone() *State {
	cp := newState()
	cp.combine(s)
	return cp
}

func checkTarget(target container.Collection) error {
	if target == nil {
		return ErrNilTarget
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilTarget
	}
	if !rv.Type().Comparable() || !hashable(target) {
		return ErrIncomparableTarget
	}
	return nil
}

// hashable catches comparable types whose dynamic contents are not, such as
// a struct value with an interface field holding a slice.
func hashable(target container.Collection) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	set := map[container.Collection]struct{}{target: {}}
	return len(set) == 1
}

// stateLocked returns the target's state, creating it when create is set.
// Callers hold mu.
func stateLocked(target container.Collection, create bool) *State {
	if m, ok := target.(*Module); ok {
		return m.state
	}
	s, ok := states[target]
	if !ok && create {
		s = newState()
		states[target] = s
	}
	return s
}

// StateOf returns a snapshot of the modules applied to target, or nil when
// none have been.
func StateOf(target container.Collection) *State {
	if checkTarget(target) != nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	s := stateLocked(target, false)
	if s == nil {
		return nil
	}
	return s.clone()
}

// Forget drops the bookkeeping kept for target. Applying a module to it
// afterwards copies the module again, and the audit sees no modules.
// Modules keep their own state and are not affected.
func Forget(target container.Collection) {
	if checkTarget(target) != nil {
		return
	}
	if _, ok := target.(*Module); ok {
		return
	}
	mu.Lock()
	delete(states, target)
	mu.Unlock()
}
