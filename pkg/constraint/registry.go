package constraint

import (
	"reflect"
	"sync"
)

// Registry holds the declarative rules attached to entity properties,
// independent of any builder instance. Rules registered for the same
// property accumulate and apply in registration order.
//
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[Key][]Rule
}

// NewRegistry creates an empty constraint registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[Key][]Rule)}
}

// Register attaches rules to a (type, property) key, after any already there.
func (r *Registry) Register(t reflect.Type, property string, rules ...Rule) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	key := Key{Type: t, Property: property}
	r.mu.Lock()
	r.rules[key] = append(r.rules[key], rules...)
	r.mu.Unlock()
}

// Rules returns the rules for a (type, property) key in registration order.
func (r *Registry) Rules(t reflect.Type, property string) []Rule {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[Key{Type: t, Property: property}]
}

// Clear drops every registered rule.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.rules = make(map[Key][]Rule)
	r.mu.Unlock()
}
