package constraint

import (
	"reflect"

	"github.com/getfixtr/fixtr/pkg/descriptor"
	"github.com/getfixtr/fixtr/pkg/random"
)

// Key identifies the property a rule or uniqueness claim is attached to.
type Key struct {
	Type     reflect.Type
	Property string
}

// Context carries everything a rule may consult when refining a value.
type Context struct {
	// EntityType is the type of the entity being populated.
	EntityType reflect.Type

	// Property describes the property being assigned.
	Property *descriptor.Property

	// Drawn is the most recently drawn random value.
	Drawn any

	// Attempt counts redraws for the current rule, starting at 0.
	Attempt int

	// Redraw produces a fresh base random value for the property.
	Redraw func() (any, error)

	// Tracker records uniqueness claims.
	Tracker *Tracker

	// Source is the primitive random source, for rules that draw directly.
	Source random.Source
}

// Key returns the (type, property) key for this context.
func (c *Context) Key() Key {
	return Key{Type: c.EntityType, Property: c.Property.Name}
}

// Outcome is a rule's verdict on the drawn value.
type Outcome struct {
	// Value is the value to assign when Veto is false.
	Value any

	// Veto asks the engine to redraw and re-apply the rule.
	Veto bool
}

// Accept produces an outcome assigning v.
func Accept(v any) Outcome { return Outcome{Value: v} }

// Veto produces an outcome forcing a redraw.
func Veto() Outcome { return Outcome{Veto: true} }

// Rule computes or vetoes a value for one property.
//
// Apply errors are diagnostic: the engine logs them and keeps the drawn
// value rather than aborting population.
type Rule interface {
	Name() string
	Apply(ctx *Context) (Outcome, error)
}

// Custom wraps a function as a named Rule.
func Custom(name string, fn func(*Context) (Outcome, error)) Rule {
	return &customRule{name: name, fn: fn}
}

type customRule struct {
	name string
	fn   func(*Context) (Outcome, error)
}

func (r *customRule) Name() string                        { return r.name }
func (r *customRule) Apply(ctx *Context) (Outcome, error) { return r.fn(ctx) }

// NonZero returns a rule that vetoes values equal to their type's zero value.
func NonZero() Rule {
	return Custom("nonzero", func(ctx *Context) (Outcome, error) {
		v := reflect.ValueOf(ctx.Drawn)
		if !v.IsValid() || v.IsZero() {
			return Veto(), nil
		}
		return Accept(ctx.Drawn), nil
	})
}

// UniqueOption configures a Unique rule.
type UniqueOption func(*uniqueRule)

// IntRange bounds the initial integer domain a Unique rule draws from.
// The domain expands monotonically once exhausted, so more values can be
// issued than the initial range holds.
func IntRange(min, max int64) UniqueOption {
	return func(r *uniqueRule) {
		r.ranged = true
		r.min, r.max = min, max
	}
}

// Unique returns a rule ensuring the property's value has never been issued
// before within the tracker's scope. Without IntRange it vetoes collisions
// so the engine redraws; values that are not comparable are accepted as-is
// since they cannot be tracked.
func Unique(opts ...UniqueOption) Rule {
	r := &uniqueRule{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type uniqueRule struct {
	ranged   bool
	min, max int64
}

func (r *uniqueRule) Name() string { return "unique" }

func (r *uniqueRule) Apply(ctx *Context) (Outcome, error) {
	if ctx.Tracker == nil {
		return Accept(ctx.Drawn), nil
	}
	key := ctx.Key()

	if r.ranged && isIntegerKind(ctx.Property.Type) {
		v := ctx.Tracker.ClaimInt(key, r.min, r.max, func(lo, hi int64) int64 {
			return ctx.Source.Int64(lo, hi)
		})
		return Accept(v), nil
	}

	v := reflect.ValueOf(ctx.Drawn)
	if !v.IsValid() || !v.Comparable() {
		return Accept(ctx.Drawn), nil
	}
	if ctx.Tracker.Claim(key, ctx.Drawn) {
		return Accept(ctx.Drawn), nil
	}
	return Veto(), nil
}

// NonZeroID composes NonZero and Unique for identifier properties.
func NonZeroID(opts ...UniqueOption) []Rule {
	return []Rule{NonZero(), Unique(opts...)}
}

// isIntegerKind reports whether t (after pointer indirection) is an integer kind.
func isIntegerKind(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
