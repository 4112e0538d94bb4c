// Package constraint refines how properties are randomly populated.
//
// A Rule sees the value the engine just drew for a property and either
// accepts it, replaces it with a computed value, or vetoes it (forcing a
// redraw, up to the engine's retry cap). Rules are registered against a
// (type, property) key and applied in declaration order after the base
// random assignment, so later rules may override earlier ones.
//
// Built-ins:
//
//   - NonZero vetoes values equal to their type's zero value.
//   - Unique claims each issued value in a Tracker so no two generated
//     entities share it. With IntRange the permissible integer domain
//     expands automatically once exhausted.
//   - NonZeroID composes the two for identifier properties.
//   - NewExprRule compiles a compute-or-veto rule from an expression string.
//
// Declarative setup is also supported from YAML via Load:
//
//	constraints:
//	  - type: Person
//	    property: ID
//	    rules: [nonzero, unique]
//	    intRange: {min: 1, max: 100}
//	  - type: Person
//	    property: Name
//	    expr: 'len(value) > 0'
//
// The Tracker and Registry are process-scoped shared state guarded by
// mutexes; Reset and Clear give test suites a deterministic scope boundary.
package constraint
