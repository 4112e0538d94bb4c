package builder

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getfixtr/fixtr/internal/id"
	"github.com/getfixtr/fixtr/pkg/constraint"
	"github.com/getfixtr/fixtr/pkg/descriptor"
)

type profile struct {
	Handle    string
	Email     string
	Age       int
	Score     float64
	Active    bool
	CreatedAt time.Time
	Key       uuid.UUID
	Blob      []byte
	Tags      []string
	Ratings   map[string]int
	Pair      [2]int
}

func TestPopulateFillsEveryEligibleProperty(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var p profile
	report := reg.Engine().Populate(&p)
	assert.Empty(t, report.Skipped)

	assert.NotEmpty(t, p.Handle)
	assert.Contains(t, p.Email, "@", "email-named properties get email-shaped values")
	assert.False(t, p.CreatedAt.IsZero())
	assert.NotEqual(t, uuid.UUID{}, p.Key)
	assert.NotEmpty(t, p.Blob)
	assert.NotEmpty(t, p.Tags)
	assert.LessOrEqual(t, len(p.Tags), DefaultMaxCollectionLen)
	assert.NotEmpty(t, p.Ratings)
}

func TestPopulateIdentifierStrings(t *testing.T) {
	type session struct {
		UUID  string
		ULID  string
		Token string
	}

	reg := NewRegistry(DefaultConfig())

	var s session
	report := reg.Engine().Populate(&s)
	assert.Empty(t, report.Skipped)

	_, err := uuid.Parse(s.UUID)
	assert.NoError(t, err)
	assert.True(t, id.IsValidULID(s.ULID))
	assert.Len(t, s.Token, 16)
}

func TestPopulateNestedStructs(t *testing.T) {
	type address struct {
		City string
	}
	type customer struct {
		Name string
		Home address
		Work *address
	}

	reg := NewRegistry(DefaultConfig())

	var c customer
	report := reg.Engine().Populate(&c)
	assert.Empty(t, report.Skipped)

	assert.NotEmpty(t, c.Home.City)
	require.NotNil(t, c.Work)
	assert.NotEmpty(t, c.Work.City)
}

func TestPopulateSelfReferentialTypeTerminates(t *testing.T) {
	type node struct {
		Value int
		Next  *node
	}

	reg := NewRegistry(DefaultConfig())

	var n node
	report := reg.Engine().Populate(&n)

	assert.Nil(t, n.Next, "cycle guard leaves the self-referential property unset")
	skips := report.ByReason(ReasonCycle)
	require.Len(t, skips, 1)
	assert.Equal(t, "Next", skips[0].Property)
}

func TestPopulateDepthBudget(t *testing.T) {
	type l3 struct{ N int }
	type l2 struct{ Child l3 }
	type l1 struct{ Child l2 }

	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	reg := NewRegistry(cfg)

	var root l1
	report := reg.Engine().Populate(&root)

	skips := report.ByReason(ReasonDepth)
	require.Len(t, skips, 1)
	assert.Equal(t, "Child.Child", skips[0].Property)
	assert.Zero(t, root.Child.Child.N, "beyond the budget the property stays at its zero value")
}

func TestPopulateIndirectCycle(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var p parent
	report := reg.Engine().Populate(&p)

	require.NotNil(t, p.Favorite)
	assert.Nil(t, p.Favorite.Owner, "mutual recursion is cut at the repeated type")
	assert.NotEmpty(t, report.ByReason(ReasonCycle))
}

// parent and child reference each other; declared at package scope since
// local types cannot be mutually recursive.
type parent struct {
	Name     string
	Favorite *child
}

type child struct {
	Label string
	Owner *parent
}

type guarded struct {
	Value string
	Count int
}

// SetValue rejects everything, standing in for entity-side validation.
func (g *guarded) SetValue(string) error {
	return errors.New("value is immutable")
}

func TestPopulateToleratesRejectingSetter(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var g guarded
	report := reg.Engine().Populate(&g)

	assert.Empty(t, g.Value, "rejected property stays at its zero value")

	skips := report.ByReason(ReasonAssignment)
	require.Len(t, skips, 1, "only the rejected property is reported")
	assert.Equal(t, "Value", skips[0].Property)
	assert.Error(t, skips[0].Err)
}

type accepting struct {
	Total int
	got   int
}

// SetTotal accepts and records the value.
func (a *accepting) SetTotal(v int) error {
	a.got = v
	a.Total = v
	return nil
}

func TestPopulatePrefersSetters(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var a accepting
	report := reg.Engine().Populate(&a)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, a.got, a.Total, "assignment went through the setter")
}

type panicky struct {
	Name string
	Age  int
}

// SetName panics, standing in for entity-side invariant enforcement.
func (p *panicky) SetName(string) {
	panic("never")
}

func TestPopulateRecoversSetterPanic(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var p panicky
	report := reg.Engine().Populate(&p)

	assert.Empty(t, p.Name)
	require.Len(t, report.ByReason(ReasonAssignment), 1, "only the panicking property is reported")
}

func TestPopulateUnsupportedPropertySkipped(t *testing.T) {
	type odd struct {
		Name string
		Ch   chan int
	}

	reg := NewRegistry(DefaultConfig())

	var o odd
	report := reg.Engine().Populate(&o)

	assert.NotEmpty(t, o.Name)
	assert.Nil(t, o.Ch)
	require.Len(t, report.ByReason(ReasonUnsupported), 1)
	assert.Equal(t, "Ch", report.ByReason(ReasonUnsupported)[0].Property)
}

func TestPopulateAppliesConstraintsInOrder(t *testing.T) {
	cfg := DefaultConfig()
	// Two compute rules: the later one must win.
	cfg.Constraints.Register(entityTypeOf[widget](), "Level",
		constraint.Custom("first", func(*constraint.Context) (constraint.Outcome, error) {
			return constraint.Accept(1), nil
		}),
		constraint.Custom("second", func(*constraint.Context) (constraint.Outcome, error) {
			return constraint.Accept(2), nil
		}),
	)
	reg := NewRegistry(cfg)

	var w widget
	reg.Engine().Populate(&w)
	assert.Equal(t, 2, w.Level)
}

func TestRedrawReappliesEarlierRules(t *testing.T) {
	cfg := DefaultConfig()
	// A later rule's veto must restart the list, or the redraw could
	// sidestep what the earlier rule already enforced.
	cfg.Constraints.Register(entityTypeOf[widget](), "Level",
		constraint.Custom("fixed", func(*constraint.Context) (constraint.Outcome, error) {
			return constraint.Accept(1000), nil
		}),
		constraint.Custom("veto-once", func(ctx *constraint.Context) (constraint.Outcome, error) {
			if ctx.Attempt == 0 {
				return constraint.Veto(), nil
			}
			return constraint.Accept(ctx.Drawn), nil
		}),
	)
	reg := NewRegistry(cfg)

	var w widget
	report := reg.Engine().Populate(&w)
	assert.Empty(t, report.ByReason(ReasonRetries))
	assert.Equal(t, 1000, w.Level)
}

func TestNonZeroHoldsAcrossUniqueRedraws(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constraints.Register(entityTypeOf[widget](), "Level", constraint.NonZeroID()...)
	reg := NewRegistry(cfg)

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		var w widget
		reg.Engine().Populate(&w)
		assert.NotZero(t, w.Level)
		seen[w.Level] = true
	}
	assert.Len(t, seen, 100, "unranged unique IDs never repeat")
}

func TestPopulateNonZeroConstraint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constraints.Register(entityTypeOf[widget](), "Level", constraint.NonZero())
	reg := NewRegistry(cfg)

	for i := 0; i < 50; i++ {
		var w widget
		reg.Engine().Populate(&w)
		assert.NotZero(t, w.Level)
	}
}

func TestPopulateRetryCapKeepsLastDrawn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryCap = 3
	cfg.Constraints.Register(entityTypeOf[widget](), "Level",
		constraint.Custom("never", func(*constraint.Context) (constraint.Outcome, error) {
			return constraint.Veto(), nil
		}),
	)
	reg := NewRegistry(cfg)

	var w widget
	report := reg.Engine().Populate(&w)

	skips := report.ByReason(ReasonRetries)
	require.Len(t, skips, 1)
	assert.Equal(t, "Level", skips[0].Property)
}

func TestPopulateRuleErrorKeepsDrawnValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constraints.Register(entityTypeOf[widget](), "Label",
		constraint.Custom("broken", func(*constraint.Context) (constraint.Outcome, error) {
			return constraint.Outcome{}, errors.New("rule malfunction")
		}),
	)
	reg := NewRegistry(cfg)

	var w widget
	report := reg.Engine().Populate(&w)

	assert.NotEmpty(t, w.Label, "drawn value survives a rule error")
	assert.Empty(t, report.ByReason(ReasonRetries))
}

func TestPopulateEnumProperty(t *testing.T) {
	type tier string
	type plan struct {
		Name string
		Tier tier
	}

	cfg := DefaultConfig()
	descriptor.RegisterEnum(cfg.Descriptors, tier("free"), tier("pro"), tier("enterprise"))
	reg := NewRegistry(cfg)

	var p plan
	report := reg.Engine().Populate(&p)
	assert.Empty(t, report.Skipped)
	assert.Contains(t, []tier{"free", "pro", "enterprise"}, p.Tier)
}

func TestPopulatePointerPrimitives(t *testing.T) {
	type form struct {
		Note *string
		Hits *int
	}

	reg := NewRegistry(DefaultConfig())

	var f form
	report := reg.Engine().Populate(&f)
	assert.Empty(t, report.Skipped)
	require.NotNil(t, f.Note)
	assert.NotEmpty(t, *f.Note)
	require.NotNil(t, f.Hits)
}

func TestPopulateNilTarget(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	var p *profile
	report := reg.Engine().Populate(p)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, ReasonUnsupported, report.Skipped[0].Reason)
}

func TestPopulateConcurrently(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Constraints.Register(entityTypeOf[widget](), "Level", constraint.Unique(constraint.IntRange(1, 50)))
	reg := NewRegistry(cfg)

	const goroutines = 8
	const perGoroutine = 20

	results := make(chan int, goroutines*perGoroutine)
	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perGoroutine; j++ {
				var w widget
				reg.Engine().Populate(&w)
				results <- w.Level
			}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}
	close(results)

	seen := make(map[int]bool)
	for v := range results {
		assert.GreaterOrEqual(t, v, 1)
		require.False(t, seen[v], "duplicate unique value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func entityTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
