package builder

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrConstructionUnsupported is returned when no construction strategy exists
// for a type: it is neither a struct nor a pointer to one, and no user
// factory was registered for it.
var ErrConstructionUnsupported = errors.New("no construction strategy for type")

// Registry resolves and caches one builder configuration per entity type.
//
// Resolution order: a user-registered factory for the exact type wins;
// otherwise a generic builder is synthesized for struct and pointer-to-struct
// types; anything else fails with ErrConstructionUnsupported. The resolution is cached, so
// repeated Resolve calls for one type always return builders of identical
// configuration; each call still yields a fresh builder instance.
//
// Safe for concurrent use.
type Registry struct {
	cfg    Config
	engine *Engine

	mu          sync.Mutex
	factories   map[reflect.Type]reflect.Value // func() (T, error)
	resolutions map[reflect.Type]*resolution
}

// resolution is the cached construction strategy for one entity type.
type resolution struct {
	goType      reflect.Type
	factory     reflect.Value // valid when user-registered
	synthesized bool
}

// NewRegistry creates a registry with the given configuration. Zero config
// fields are filled with defaults.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		cfg:         cfg.normalize(),
		factories:   make(map[reflect.Type]reflect.Value),
		resolutions: make(map[reflect.Type]*resolution),
	}
	r.engine = &Engine{cfg: r.cfg, registry: r}
	return r
}

// Config returns the registry's effective configuration.
func (r *Registry) Config() Config { return r.cfg }

// Engine returns the registry's population engine.
func (r *Registry) Engine() *Engine { return r.engine }

// RegisterFactory binds a user-authored construction strategy to type T.
// The most recent registration wins for types not yet resolved; once a type
// has been resolved its configuration is pinned until Clear.
func RegisterFactory[T any](r *Registry, factory func() (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.Lock()
	r.factories[t] = reflect.ValueOf(factory)
	r.mu.Unlock()
}

// Resolve returns a fresh builder for T, resolving and caching the
// construction strategy on first use. Fails with ErrConstructionUnsupported
// when T is uninstantiable and no factory was registered.
func Resolve[T any](r *Registry) (*Builder[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	res, err := r.resolveType(t)
	if err != nil {
		return nil, err
	}

	var construct func() (T, error)
	switch {
	case res.synthesized && res.goType.Kind() == reflect.Pointer:
		construct = func() (T, error) {
			return reflect.New(res.goType.Elem()).Interface().(T), nil
		}
	case res.synthesized:
		construct = func() (T, error) {
			var zero T
			return zero, nil
		}
	default:
		construct = res.factory.Interface().(func() (T, error))
	}
	return New[T](r, construct), nil
}

// resolveType is the non-generic resolution path, also used by the engine
// when recursing into nested structured properties.
func (r *Registry) resolveType(t reflect.Type) (*resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.resolutions[t]; ok {
		return res, nil
	}

	var res *resolution
	switch {
	case r.factories[t].IsValid():
		res = &resolution{goType: t, factory: r.factories[t]}
	case t.Kind() == reflect.Struct,
		t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		res = &resolution{goType: t, synthesized: true}
	default:
		return nil, fmt.Errorf("builder: %w: %s", ErrConstructionUnsupported, t)
	}

	r.resolutions[t] = res
	return res, nil
}

// construct builds a fresh entity shell and returns an addressable pointer
// to it, so population can set fields in place.
func (res *resolution) construct() (reflect.Value, error) {
	ptr := reflect.New(res.goType)
	if res.synthesized {
		if res.goType.Kind() == reflect.Pointer {
			ptr.Elem().Set(reflect.New(res.goType.Elem()))
		}
		return ptr, nil
	}

	out := res.factory.Call(nil)
	if errv := out[1]; !errv.IsNil() {
		return reflect.Value{}, fmt.Errorf("builder: factory for %s: %w", res.goType, errv.Interface().(error))
	}
	ptr.Elem().Set(out[0])
	return ptr, nil
}

// RandomValue generates a standalone random value of type t without the
// builder machinery. Used for primitive-like, enum, and collection types;
// struct types should go through Resolve instead.
func (r *Registry) RandomValue(t reflect.Type) (any, error) {
	return r.engine.standalone(t)
}

// Clear drops all cached resolutions and registered factories so the next
// Resolve re-runs the resolution algorithm.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.factories = make(map[reflect.Type]reflect.Value)
	r.resolutions = make(map[reflect.Type]*resolution)
	r.mu.Unlock()
}
