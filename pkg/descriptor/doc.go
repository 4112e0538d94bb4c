// Package descriptor provides a structural view of entity types.
//
// A descriptor.Type lists the settable properties of a struct type, each
// classified by value kind: primitive, enum, nested struct, collection, or
// unsupported. The population engine drives generation off this view instead
// of touching reflect directly at every step.
//
// Classification is structural rather than an enumerated type list: anything
// shaped like a number, string, boolean, time, uuid.UUID, or byte sequence
// counts as primitive, so new primitive-shaped named types work without
// changes here. Go has no reflected enums, so enum value sets are registered
// explicitly:
//
//	reg := descriptor.NewRegistry()
//	descriptor.RegisterEnum(reg, StatusActive, StatusSuspended, StatusClosed)
//
// Descriptors are computed once per type and cached; Clear drops the cache
// when a test scope needs recomputation.
package descriptor
