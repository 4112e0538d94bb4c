package fixture

import (
	"log/slog"
	"sync"

	"github.com/getfixtr/fixtr/pkg/builder"
	"github.com/getfixtr/fixtr/pkg/constraint"
	"github.com/getfixtr/fixtr/pkg/descriptor"
	"github.com/getfixtr/fixtr/pkg/random"
)

// Env is one generation scope: a builder registry with its constraint
// registry, uniqueness tracker, and descriptor cache. Envs are independent;
// nothing generated in one scope affects another.
//
// Safe for concurrent use.
type Env struct {
	builders *builder.Registry
}

// Option configures a new Env.
type Option func(*builder.Config)

// WithSeed makes the env's random source reproducible.
func WithSeed(seed uint64) Option {
	return func(c *builder.Config) { c.Source = random.NewSource(seed) }
}

// WithSource replaces the primitive random source.
func WithSource(src random.Source) Option {
	return func(c *builder.Config) { c.Source = src }
}

// WithMaxDepth overrides the recursion depth budget.
func WithMaxDepth(n int) Option {
	return func(c *builder.Config) { c.MaxDepth = n }
}

// WithMaxCollectionLen overrides the largest generated collection length.
func WithMaxCollectionLen(n int) Option {
	return func(c *builder.Config) { c.MaxCollectionLen = n }
}

// WithRetryCap overrides the constraint redraw budget.
func WithRetryCap(n int) Option {
	return func(c *builder.Config) { c.RetryCap = n }
}

// WithLogger routes engine diagnostics (skipped properties, exhausted
// retries) to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *builder.Config) { c.Logger = logger }
}

// NewEnv creates an isolated generation scope.
func NewEnv(opts ...Option) *Env {
	cfg := builder.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Env{builders: builder.NewRegistry(cfg)}
}

// Builders exposes the env's builder registry.
func (e *Env) Builders() *builder.Registry { return e.builders }

// Constraints exposes the env's constraint registry.
func (e *Env) Constraints() *constraint.Registry { return e.builders.Config().Constraints }

// Tracker exposes the env's uniqueness tracker.
func (e *Env) Tracker() *constraint.Tracker { return e.builders.Config().Tracker }

// Descriptors exposes the env's descriptor registry.
func (e *Env) Descriptors() *descriptor.Registry { return e.builders.Config().Descriptors }

// Source exposes the env's primitive random source.
func (e *Env) Source() random.Source { return e.builders.Config().Source }

// Reset starts a fresh scope: cached builder resolutions, descriptors,
// constraints, and all uniqueness claims are dropped. Intended for
// suite-level boundaries.
func (e *Env) Reset() {
	e.builders.Clear()
	e.Descriptors().Clear()
	e.Constraints().Clear()
	e.Tracker().Reset()
}

var (
	defaultMu  sync.RWMutex
	defaultEnv = NewEnv()
)

// Default returns the process-wide generation scope, used when callers pass
// a nil Env.
func Default() *Env {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultEnv
}

// Reset resets the process-wide scope. Intended for suite-level boundaries.
func Reset() {
	Default().Reset()
}

// orDefault resolves nil to the process-wide scope.
func orDefault(env *Env) *Env {
	if env == nil {
		return Default()
	}
	return env
}
