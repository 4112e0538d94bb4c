package builder

import (
	"fmt"
	"reflect"
)

// mutation is one deferred, named property operation. Mutations are applied
// in insertion order at Build time, never eagerly.
type mutation[T any] struct {
	name  string
	apply func(*T)
}

// Builder accumulates deferred mutations against entity type T and applies
// them to a freshly constructed entity at Build.
//
// Builders are not safe for concurrent use; resolve one per goroutine.
type Builder[T any] struct {
	registry  *Registry
	construct func() (T, error)
	mutations []mutation[T]
	report    Report
	err       error
}

// New creates a builder with an explicit construction strategy. User-authored
// builders wrap this to add their own convenience methods.
func New[T any](r *Registry, construct func() (T, error)) *Builder[T] {
	return &Builder[T]{registry: r, construct: construct}
}

// setError records the first error encountered during building.
// Subsequent errors are ignored (first error wins pattern).
func (b *Builder[T]) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *Builder[T]) Err() error { return b.err }

// WithProp appends a named deferred mutation and returns the builder for
// chaining. Later mutations for the same property override earlier ones.
func (b *Builder[T]) WithProp(name string, mutator func(*T)) *Builder[T] {
	if mutator == nil {
		b.setError(fmt.Errorf("builder: WithProp(%q): nil mutator", name))
		return b
	}
	b.mutations = append(b.mutations, mutation[T]{name: name, apply: mutator})
	return b
}

// WithField appends a deferred reflective assignment of value to the named
// field. The field's existence and the value's assignability are validated
// immediately so a typo fails the Build instead of silently doing nothing.
func (b *Builder[T]) WithField(name string, value any) *Builder[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		b.setError(fmt.Errorf("builder: WithField(%q): %s is not a struct", name, t))
		return b
	}
	field, ok := t.FieldByName(name)
	if !ok || !field.IsExported() {
		b.setError(fmt.Errorf("builder: WithField(%q): no settable field on %s", name, t))
		return b
	}
	v := reflect.ValueOf(value)
	if v.IsValid() && v.Type() != field.Type && !v.Type().ConvertibleTo(field.Type) {
		b.setError(fmt.Errorf("builder: WithField(%q): %T is not assignable to %s", name, value, field.Type))
		return b
	}

	b.mutations = append(b.mutations, mutation[T]{name: name, apply: func(e *T) {
		target := reflect.ValueOf(e).Elem()
		for target.Kind() == reflect.Pointer {
			if target.IsNil() {
				return
			}
			target = target.Elem()
		}
		f := target.FieldByIndex(field.Index)
		if !v.IsValid() {
			f.SetZero()
			return
		}
		if v.Type() != field.Type {
			f.Set(v.Convert(field.Type))
			return
		}
		f.Set(v)
	}})
	return b
}

// WithRandomProps appends a deferred random population of every eligible
// property. Because it is deferred like any other mutation, an explicit
// WithField or WithProp later in the chain overrides the random value.
func (b *Builder[T]) WithRandomProps() *Builder[T] {
	b.mutations = append(b.mutations, mutation[T]{name: "random-props", apply: func(e *T) {
		b.report.merge(b.registry.engine.Populate(e))
	}})
	return b
}

// Build constructs the entity shell and applies all accumulated mutations in
// insertion order. Returns the first recorded error, if any.
func (b *Builder[T]) Build() (T, error) {
	var zero T
	if b.err != nil {
		return zero, b.err
	}

	entity, err := b.construct()
	if err != nil {
		return zero, err
	}
	for _, m := range b.mutations {
		m.apply(&entity)
	}
	if b.err != nil {
		return zero, b.err
	}
	return entity, nil
}

// MustBuild is Build, panicking on error. Intended for test code where a
// construction failure should fail loudly.
func (b *Builder[T]) MustBuild() T {
	entity, err := b.Build()
	if err != nil {
		panic(err)
	}
	return entity
}

// Report returns the population diagnostics accumulated by WithRandomProps
// during Build: which properties were skipped and why. Empty until Build.
func (b *Builder[T]) Report() *Report { return &b.report }
