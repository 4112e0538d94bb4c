package builder

import (
	"log/slog"

	"github.com/getfixtr/fixtr/pkg/constraint"
	"github.com/getfixtr/fixtr/pkg/descriptor"
	"github.com/getfixtr/fixtr/pkg/logging"
	"github.com/getfixtr/fixtr/pkg/random"
)

// Defaults for the generation limits. These are starting points, not magic
// numbers: override them through Config.
const (
	// DefaultMaxDepth bounds recursion into nested structured properties.
	DefaultMaxDepth = 15

	// DefaultMaxCollectionLen bounds generated slice, array fill, and map sizes.
	DefaultMaxCollectionLen = 3

	// DefaultRetryCap bounds redraws while satisfying a vetoing constraint.
	DefaultRetryCap = 8
)

// Config wires the engine's collaborators and limits. The zero value is not
// usable; start from DefaultConfig and replace what you need.
type Config struct {
	// MaxDepth is the maximum nesting level the engine traverses into
	// nested structured properties before leaving them unset.
	MaxDepth int

	// MaxCollectionLen is the largest generated collection length.
	MaxCollectionLen int

	// RetryCap is the redraw budget per vetoing constraint rule. When
	// exhausted, the property keeps its last drawn value.
	RetryCap int

	// Source supplies primitive random values.
	Source random.Source

	// Constraints holds the declarative rules applied after base assignment.
	Constraints *constraint.Registry

	// Tracker records uniqueness claims for Unique rules.
	Tracker *constraint.Tracker

	// Descriptors computes and caches entity type descriptors.
	Descriptors *descriptor.Registry

	// Logger receives debug diagnostics for skipped properties and
	// exhausted retries. Defaults to a no-op logger.
	Logger *slog.Logger
}

// DefaultConfig returns a ready-to-use configuration with fresh collaborators
// and a nondeterministic source.
func DefaultConfig() Config {
	return Config{
		MaxDepth:         DefaultMaxDepth,
		MaxCollectionLen: DefaultMaxCollectionLen,
		RetryCap:         DefaultRetryCap,
		Source:           random.NewSource(0),
		Constraints:      constraint.NewRegistry(),
		Tracker:          constraint.NewTracker(),
		Descriptors:      descriptor.NewRegistry(),
		Logger:           logging.Nop(),
	}
}

// normalize fills any zero field with its default so a partially specified
// config is still safe to run.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.MaxCollectionLen <= 0 {
		c.MaxCollectionLen = def.MaxCollectionLen
	}
	if c.RetryCap <= 0 {
		c.RetryCap = def.RetryCap
	}
	if c.Source == nil {
		c.Source = def.Source
	}
	if c.Constraints == nil {
		c.Constraints = def.Constraints
	}
	if c.Tracker == nil {
		c.Tracker = def.Tracker
	}
	if c.Descriptors == nil {
		c.Descriptors = def.Descriptors
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	return c
}
