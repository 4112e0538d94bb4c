package fixture

import (
	"fmt"
	"io"
	"reflect"

	"github.com/getfixtr/fixtr/pkg/builder"
	"github.com/getfixtr/fixtr/pkg/constraint"
	"github.com/getfixtr/fixtr/pkg/descriptor"
)

// GetRandom returns a fully randomized T. Structured types go through the
// builder machinery: resolve, populate every eligible property, apply
// constraints, build. Primitive-like types are drawn straight from the
// random source. A nil env means the process-wide default scope.
func GetRandom[T any](env *Env) (T, error) {
	env = orDefault(env)
	t := reflect.TypeOf((*T)(nil)).Elem()

	if env.Descriptors().Classify(t) == descriptor.KindStruct {
		b, err := builder.Resolve[T](env.builders)
		if err != nil {
			var zero T
			return zero, err
		}
		return b.WithRandomProps().Build()
	}

	raw, err := env.builders.RandomValue(t)
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := raw.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("fixture: generated %T for %s", raw, t)
	}
	return out, nil
}

// BuildRandom is an alias for GetRandom.
func BuildRandom[T any](env *Env) (T, error) {
	return GetRandom[T](env)
}

// MustRandom is GetRandom, panicking on error.
func MustRandom[T any](env *Env) T {
	v, err := GetRandom[T](env)
	if err != nil {
		panic(err)
	}
	return v
}

// BuildDefault constructs T through its registered construction strategy
// with every property left at its default value, no randomization.
func BuildDefault[T any](env *Env) (T, error) {
	b, err := builder.Resolve[T](orDefault(env).builders)
	if err != nil {
		var zero T
		return zero, err
	}
	return b.Build()
}

// BuilderFor resolves a fresh fluent builder for T.
func BuilderFor[T any](env *Env) (*builder.Builder[T], error) {
	return builder.Resolve[T](orDefault(env).builders)
}

// Slice generates n independent random values of T.
func Slice[T any](env *Env, n int) ([]T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := GetRandom[T](env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// RegisterFactory binds a user-authored construction strategy to T.
func RegisterFactory[T any](env *Env, factory func() (T, error)) {
	builder.RegisterFactory(orDefault(env).builders, factory)
}

// RegisterEnum registers the legal value set for enum type T.
func RegisterEnum[T any](env *Env, values ...T) {
	descriptor.RegisterEnum(orDefault(env).Descriptors(), values...)
}

// RegisterType binds a name to T for declarative constraint configuration.
func RegisterType[T any](env *Env, name string) {
	orDefault(env).Descriptors().RegisterName(name, reflect.TypeOf((*T)(nil)).Elem())
}

// RegisterRule attaches a custom compute-or-veto rule to T's property.
func RegisterRule[T any](env *Env, property string, rules ...constraint.Rule) error {
	env = orDefault(env)
	prop, err := propertyOf[T](env, property)
	if err != nil {
		return err
	}
	env.Constraints().Register(entityType[T](), prop.Name, rules...)
	return nil
}

// RequireNonZero ensures T's property is never left at its zero value.
func RequireNonZero[T any](env *Env, property string) error {
	return RegisterRule[T](env, property, constraint.NonZero())
}

// RequireUnique ensures no two generated T's share a value for the property
// within the env's scope.
func RequireUnique[T any](env *Env, property string, opts ...constraint.UniqueOption) error {
	return RegisterRule[T](env, property, constraint.Unique(opts...))
}

// RequireUniqueID attaches non-zero and unique rules to T's identifier
// property (ID, Id, or <TypeName>ID by convention).
func RequireUniqueID[T any](env *Env, opts ...constraint.UniqueOption) error {
	env = orDefault(env)
	t := entityType[T]()
	desc, err := env.Descriptors().Describe(t)
	if err != nil {
		return err
	}
	prop := desc.IDProperty()
	if prop == nil {
		return fmt.Errorf("fixture: %s has no identifier property", t)
	}
	env.Constraints().Register(t, prop.Name, constraint.NonZeroID(opts...)...)
	return nil
}

// LoadConstraints registers rules declared in YAML, resolving entity type
// names registered via RegisterType.
func LoadConstraints(env *Env, r io.Reader) error {
	env = orDefault(env)
	return constraint.Load(r, env.Constraints(), env.Descriptors().TypeByName)
}

// entityType returns T's reflect.Type with pointer indirection removed.
func entityType[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// propertyOf validates that T declares the named property.
func propertyOf[T any](env *Env, property string) (*descriptor.Property, error) {
	t := entityType[T]()
	desc, err := env.Descriptors().Describe(t)
	if err != nil {
		return nil, err
	}
	prop := desc.Property(property)
	if prop == nil {
		return nil, fmt.Errorf("fixture: %s has no property %q", t, property)
	}
	return prop, nil
}
