// Package fixture is the public entry point for random test-data generation.
//
// An Env bundles the builder registry, constraint registry, uniqueness
// tracker, and descriptor cache into one explicit scope. Most tests use the
// process-wide default scope by passing nil:
//
//	person, err := fixture.GetRandom[Person](nil)
//
// Tests that need isolation or determinism construct their own:
//
//	env := fixture.NewEnv(fixture.WithSeed(42))
//	order := fixture.MustRandom[Order](env)
//
// Random generation composes with pinned properties through the builder:
//
//	b, _ := fixture.BuilderFor[Person](nil)
//	p, _ := b.WithRandomProps().WithField("Name", "Ada").Build()
//
// Mutations are deferred and ordered, so the explicit Name always wins.
//
// Constraints attach declaratively per type and property:
//
//	fixture.RequireUnique[Person](nil, "ID", constraint.IntRange(1, 100))
//	fixture.RequireNonZero[Order](nil, "Total")
//
// Uniqueness holds across all entities generated within the Env's scope;
// call Env.Reset (or the package-level Reset for the default scope) at
// suite boundaries.
package fixture
