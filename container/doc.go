// Package container is the host dependency-injection container the module
// layer composes over.
//
// It models registrations the way most service-collection containers do:
// an ordered list of Descriptors (service type, lifetime, and one of an
// implementation type, a factory, or a ready instance) that is turned into a
// Provider by Build. Providers resolve by reflect.Type and support the three
// usual lifetimes:
//
//   - Singleton: one instance per Provider
//   - Scoped: one instance per Scope (the Provider itself acts as the root scope)
//   - Transient: a new instance per resolution
//
// Implementation types are activated through a Constructors catalog. Go types
// have no constructors of their own, so ordinary constructor functions are
// registered against the type they return:
//
//	container.RegisterConstructor(NewUserService) // func(*DB, Logger) *UserService
//
// Types without a registered constructor are built as zero values.
//
// Deliberately out of scope: decorators, keyed services, disposal, and cycle
// detection. A depth guard stops runaway recursion but does not report cycles.
package container
