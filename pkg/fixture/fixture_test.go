package fixture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getfixtr/fixtr/pkg/constraint"
)

type person struct {
	ID          int
	Name        string
	DateOfBirth time.Time
	Active      bool
}

type order struct {
	Reference string
	Total     float64
}

func TestGetRandomStruct(t *testing.T) {
	env := NewEnv()

	p, err := GetRandom[person](env)
	require.NoError(t, err)

	assert.NotEmpty(t, p.Name)
	assert.False(t, p.DateOfBirth.IsZero())
}

func TestGetRandomPointerEntity(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireNonZero[person](env, "ID"))

	p, err := GetRandom[*person](env)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NotEmpty(t, p.Name)
	assert.NotZero(t, p.ID, "constraints keyed on the element type still apply")
}

func TestGetRandomPrimitive(t *testing.T) {
	env := NewEnv()

	s, err := GetRandom[string](env)
	require.NoError(t, err)
	assert.NotEmpty(t, s)

	n, err := GetRandom[int](env)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)

	b, err := GetRandom[[]byte](env)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestGetRandomUnsupportedType(t *testing.T) {
	env := NewEnv()

	_, err := GetRandom[chan int](env)
	assert.Error(t, err)
}

func TestGetRandomVaries(t *testing.T) {
	env := NewEnv()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		seen[p.Name] = true
	}
	assert.Greater(t, len(seen), 1, "consecutive generations differ")
}

func TestSeededEnvReproduces(t *testing.T) {
	type seeded struct {
		ID     int
		Name   string
		Active bool
	}

	a, err := GetRandom[seeded](NewEnv(WithSeed(99)))
	require.NoError(t, err)
	b, err := GetRandom[seeded](NewEnv(WithSeed(99)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildDefault(t *testing.T) {
	env := NewEnv()

	p, err := BuildDefault[person](env)
	require.NoError(t, err)
	assert.Equal(t, person{}, p)
}

func TestBuildDefaultWithFactory(t *testing.T) {
	env := NewEnv()
	RegisterFactory(env, func() (order, error) {
		return order{Reference: "ORD-0001"}, nil
	})

	o, err := BuildDefault[order](env)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", o.Reference)
}

func TestBuilderForExplicitOverride(t *testing.T) {
	env := NewEnv()

	b, err := BuilderFor[person](env)
	require.NoError(t, err)

	p, err := b.WithRandomProps().WithField("Name", "Ada Lovelace").Build()
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name, "explicit value wins over the draw")
}

func TestMustRandom(t *testing.T) {
	env := NewEnv()

	p := MustRandom[person](env)
	assert.NotEmpty(t, p.Name)

	assert.Panics(t, func() { MustRandom[chan int](env) })
}

func TestSlice(t *testing.T) {
	env := NewEnv()

	people, err := Slice[person](env, 5)
	require.NoError(t, err)
	require.Len(t, people, 5)
	for _, p := range people {
		assert.NotEmpty(t, p.Name)
	}
}

func TestRegisterEnum(t *testing.T) {
	type color string
	type shirt struct {
		Size  int
		Color color
	}

	env := NewEnv()
	RegisterEnum(env, color("red"), color("green"), color("blue"))

	for i := 0; i < 10; i++ {
		s, err := GetRandom[shirt](env)
		require.NoError(t, err)
		assert.Contains(t, []color{"red", "green", "blue"}, s.Color)
	}
}

func TestRegisterRuleUnknownProperty(t *testing.T) {
	env := NewEnv()

	err := RegisterRule[person](env, "Nickname", constraint.NonZero())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nickname")
}

func TestRequireNonZero(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireNonZero[person](env, "ID"))

	for i := 0; i < 30; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
	}
}

// Generating well past the declared range must keep identifiers unique by
// widening the domain instead of failing or looping forever.
func TestRequireUniqueExpandsDomain(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireUnique[person](env, "ID", constraint.IntRange(1, 100)))

	const total = 150
	seen := make(map[int]bool, total)
	max := 0
	for i := 0; i < total; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.ID, 1)
		require.False(t, seen[p.ID], "duplicate ID %d at generation %d", p.ID, i)
		seen[p.ID] = true
		if p.ID > max {
			max = p.ID
		}
	}
	assert.Len(t, seen, total)
	assert.Greater(t, max, 100, "domain expanded beyond the declared range")
}

func TestRequireUniqueID(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireUniqueID[person](env, constraint.IntRange(1, 50)))

	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestRequireUniqueIDNoIdentifier(t *testing.T) {
	type blob struct {
		Data []byte
	}

	env := NewEnv()
	err := RequireUniqueID[blob](env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier")
}

func TestExprRule(t *testing.T) {
	env := NewEnv()

	rule, err := constraint.NewExprRule(`name == "Total" ? 19.99 : value`)
	require.NoError(t, err)
	require.NoError(t, RegisterRule[order](env, "Total", rule))

	o, err := GetRandom[order](env)
	require.NoError(t, err)
	assert.Equal(t, 19.99, o.Total)
}

func TestLoadConstraints(t *testing.T) {
	env := NewEnv()
	RegisterType[person](env, "person")

	cfg := `
constraints:
  - type: person
    property: ID
    rules: [nonzeroid]
    intRange: {min: 1, max: 40}
`
	require.NoError(t, LoadConstraints(env, strings.NewReader(cfg)))

	seen := make(map[int]bool)
	for i := 0; i < 15; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestLoadConstraintsUnknownType(t *testing.T) {
	env := NewEnv()

	cfg := `
constraints:
  - type: nobody
    property: ID
    rules: [nonzero]
`
	err := LoadConstraints(env, strings.NewReader(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestEnvIsolation(t *testing.T) {
	one := NewEnv()
	two := NewEnv()
	require.NoError(t, RequireUnique[person](one, "ID", constraint.IntRange(1, 3)))
	require.NoError(t, RequireUnique[person](two, "ID", constraint.IntRange(1, 3)))

	claim := func(env *Env) map[int]bool {
		seen := make(map[int]bool)
		for i := 0; i < 3; i++ {
			p, err := GetRandom[person](env)
			require.NoError(t, err)
			seen[p.ID] = true
		}
		return seen
	}

	first := claim(one)
	second := claim(two)

	// Each scope exhausts its own [1,3] domain; a shared tracker would have
	// forced the second scope past 3.
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, first)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, second)
}

func TestEnvReset(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireUnique[person](env, "ID", constraint.IntRange(1, 2)))

	for i := 0; i < 2; i++ {
		_, err := GetRandom[person](env)
		require.NoError(t, err)
	}

	env.Reset()
	require.NoError(t, RequireUnique[person](env, "ID", constraint.IntRange(1, 2)))

	seen := make(map[int]bool)
	for i := 0; i < 2; i++ {
		p, err := GetRandom[person](env)
		require.NoError(t, err)
		seen[p.ID] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, seen, "claims from before the reset are forgotten")
}

func TestNilEnvUsesDefault(t *testing.T) {
	Reset()
	defer Reset()

	p, err := GetRandom[person](nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Name)
}

func TestConcurrentGeneration(t *testing.T) {
	env := NewEnv()
	require.NoError(t, RequireUnique[person](env, "ID", constraint.IntRange(1, 100)))

	const goroutines = 8
	const each = 10

	ids := make(chan int, goroutines*each)
	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < each; j++ {
				p, err := GetRandom[person](env)
				if err != nil {
					t.Error(err)
					return
				}
				ids <- p.ID
			}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate ID %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*each)
}
