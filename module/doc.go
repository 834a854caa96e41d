// Package module groups container registrations into named, reusable modules.
//
// A Module is an ordered list of container.Descriptors plus the dependencies
// it expects someone else to register. Modules can be combined, and applying
// a module to a target collection is idempotent: the same *Module is copied
// into the same target at most once, no matter how many combined modules
// carry it.
//
//	var Storage = module.Must(module.AddSingleton[Store, *pgStore](
//	    module.New("storage"), nil))
//
//	var API = module.Must(module.AddScoped[Handler, *handler](
//	    module.New("api").Combine(Storage), nil))
//
//	services := container.NewCollection()
//	if err := module.Apply(services, API); err != nil { ... }
//	if err := module.Audit(services).Err(); err != nil { ... } // fail fast on missing wiring
//
// Dependencies are declared explicitly (AddDependency / Require) or inferred
// from the implementation's registered constructor when no factory is given.
// The audit reports, per missing type, which registered types need it and
// which module declared it. Reporting is separate from enforcement: callers
// decide whether a non-empty report is fatal.
//
// Abstractions registered through AddScoped/AddSingleton/AddTransient resolve
// through their implementation, so within one scope both resolve to the same
// instance.
//
// All Apply calls share one process-wide lock. Applying happens at startup,
// so the lock is never contended on a hot path.
package module
