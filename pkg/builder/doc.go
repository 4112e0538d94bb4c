// Package builder provides the generic fluent builder and the reflective
// random-population engine behind it.
//
// A Registry resolves one builder configuration per entity type: a
// user-registered factory when one exists, otherwise a synthesized generic
// builder that constructs the zero value. Resolution is cached and
// idempotent; every Resolve call hands back a fresh builder instance for
// mutation accumulation.
//
//	reg := builder.NewRegistry(builder.DefaultConfig())
//	b, err := builder.Resolve[Order](reg)
//	order, err := b.WithRandomProps().WithField("Status", "pending").Build()
//
// Builders accumulate deferred, ordered mutations and apply them only at
// Build, so an explicit setter always overrides whatever WithRandomProps
// drew earlier in the chain: the contract that makes "random entity,
// pinned to one property" expressible.
//
// The population engine walks the entity's descriptor, assigns a random
// value to every eligible property, recurses into nested structs with a
// depth budget and cycle guard, then applies constraint rules in declaration
// order. Per-property failures never abort the rest of the entity: the
// property is left at its zero value and the skip is recorded in the
// builder's Report and logged at debug level.
package builder
