package descriptor

import (
	"reflect"
	"sync"
)

// Registry computes and caches type descriptors, and holds the explicit
// registrations Go reflection cannot discover: enum value sets and the
// name-to-type bindings used by declarative constraint configuration.
//
// All methods are safe for concurrent use.
type Registry struct {
	cache sync.Map // reflect.Type -> *Type

	mu    sync.RWMutex
	enums map[reflect.Type][]reflect.Value
	names map[string]reflect.Type
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{
		enums: make(map[reflect.Type][]reflect.Value),
		names: make(map[string]reflect.Type),
	}
}

// Describe retrieves or builds the descriptor for a struct type.
// Pointer types are described by their element type.
func (r *Registry) Describe(t reflect.Type) (*Type, error) {
	t = indirect(t)
	if cached, ok := r.cache.Load(t); ok {
		return cached.(*Type), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, errNotStruct(t)
	}

	desc := r.build(t)
	actual, _ := r.cache.LoadOrStore(t, desc)
	return actual.(*Type), nil
}

// build walks the struct's fields and classifies each one. Enum membership
// is resolved against the registered value sets at build time, so enums must
// be registered before the first Describe of a type that uses them.
func (r *Registry) build(t reflect.Type) *Type {
	desc := &Type{
		GoType:     t,
		Properties: make([]Property, 0, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		prop := Property{
			Name:     f.Name,
			Index:    i,
			Type:     f.Type,
			Kind:     r.Classify(f.Type),
			Settable: true,
		}
		if prop.Kind == KindEnum {
			prop.EnumValues = r.EnumValues(f.Type)
		}
		desc.Properties = append(desc.Properties, prop)
	}
	return desc
}

// Classify determines the generation kind for a type. Registered enums win
// over the structural rules, so a named string type with a registered value
// set is an enum rather than a free-form string.
func (r *Registry) Classify(t reflect.Type) Kind {
	t = indirect(t)

	r.mu.RLock()
	_, isEnum := r.enums[t]
	r.mu.RUnlock()
	if isEnum {
		return KindEnum
	}

	if isPrimitive(t) {
		return KindPrimitive
	}
	if t.Kind() == reflect.Struct {
		return KindStruct
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if r.Classify(t.Elem()) != KindUnsupported {
			return KindCollection
		}
	case reflect.Map:
		if r.Classify(t.Key()) != KindUnsupported && r.Classify(t.Elem()) != KindUnsupported {
			return KindCollection
		}
	}
	return KindUnsupported
}

// EnumValues returns the registered legal values for an enum type, or nil.
func (r *Registry) EnumValues(t reflect.Type) []reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enums[indirect(t)]
}

// RegisterEnumValues registers the legal value set for an enum type.
// Registering after a type using the enum has been described requires a
// Clear for the new classification to take effect.
func (r *Registry) RegisterEnumValues(t reflect.Type, values []reflect.Value) {
	r.mu.Lock()
	r.enums[indirect(t)] = values
	r.mu.Unlock()
}

// RegisterEnum registers the legal value set for enum type T.
func RegisterEnum[T any](r *Registry, values ...T) {
	vals := make([]reflect.Value, len(values))
	for i, v := range values {
		vals[i] = reflect.ValueOf(v)
	}
	r.RegisterEnumValues(reflect.TypeOf((*T)(nil)).Elem(), vals)
}

// RegisterName binds a name to a type so declarative configuration can refer
// to entity types by string. Re-registration overwrites the previous binding.
func (r *Registry) RegisterName(name string, t reflect.Type) {
	r.mu.Lock()
	r.names[name] = indirect(t)
	r.mu.Unlock()
}

// TypeByName resolves a previously registered name.
func (r *Registry) TypeByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.names[name]
	return t, ok
}

// Clear drops all cached descriptors. Enum and name registrations survive;
// descriptors are rebuilt lazily on the next Describe.
func (r *Registry) Clear() {
	r.cache.Range(func(key, _ any) bool {
		r.cache.Delete(key)
		return true
	})
}
