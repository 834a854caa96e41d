package container

import "sync"

// Collection is an ordered, append-only list of registrations.
//
// Implementations used as module targets must be comparable (typically a
// pointer) because their identity keys composition bookkeeping.
type Collection interface {
	Add(ds ...Descriptor)
	// Descriptors returns a snapshot in insertion order.
	Descriptors() []Descriptor
}

// ServiceCollection is the default Collection.
type ServiceCollection struct {
	mu    sync.Mutex
	items []Descriptor
}

var _ Collection = (*ServiceCollection)(nil)

// NewCollection returns an empty ServiceCollection.
func NewCollection() *ServiceCollection {
	return &ServiceCollection{}
}

// Add appends descriptors in order.
func (c *ServiceCollection) Add(ds ...Descriptor) {
	c.mu.Lock()
	c.items = append(c.items, ds...)
	c.mu.Unlock()
}

// Descriptors implements Collection.
func (c *ServiceCollection) Descriptors() []Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Descriptor, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of registrations.
func (c *ServiceCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Build validates the registrations and returns a Provider over a snapshot of them.
func (c *ServiceCollection) Build(opts ...BuildOption) (*Provider, error) {
	return Build(c, opts...)
}
