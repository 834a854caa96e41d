// Package odimod composes dependency registrations into reusable modules.
//
// The repository is split into two layers:
//
//   - container: a small reflection-based host container (descriptors,
//     singleton/scoped/transient lifetimes, constructor catalog, scopes)
//   - module: named, combinable groups of registrations that apply to a
//     collection at most once, declare what they need, and can be audited
//     for dependencies nobody registered
//
// Wiring stays in your composition root: build modules as package-level
// values, Apply them to a collection, run module.Audit in a test, then Build.
//
// See examples/modules for an end-to-end walk through.
package odimod
