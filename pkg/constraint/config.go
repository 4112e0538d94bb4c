package constraint

import (
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Config is the YAML shape for declarative constraint registration.
type Config struct {
	Constraints []Declaration `yaml:"constraints"`
}

// Declaration attaches rules to one property of a named entity type.
type Declaration struct {
	// Type is the entity type name, resolved via the caller's resolver
	// (typically the descriptor registry's name bindings).
	Type string `yaml:"type"`

	// Property is the property name the rules attach to.
	Property string `yaml:"property"`

	// Rules lists built-in rule names: "nonzero", "unique", "nonzeroid".
	Rules []string `yaml:"rules"`

	// IntRange bounds the initial domain of "unique" and "nonzeroid" rules.
	IntRange *RangeDecl `yaml:"intRange"`

	// Expr is an optional compute-or-veto expression, applied after Rules.
	Expr string `yaml:"expr"`
}

// RangeDecl is an inclusive integer range.
type RangeDecl struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// Load reads a YAML constraint config and registers the declared rules.
// Type names are resolved through resolve; unknown names and unknown rule
// names are errors, since a silently dropped declaration would make tests
// pass for the wrong reason.
func Load(r io.Reader, reg *Registry, resolve func(name string) (reflect.Type, bool)) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("constraint: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("constraint: parse config: %w", err)
	}

	for _, decl := range cfg.Constraints {
		t, ok := resolve(decl.Type)
		if !ok {
			return fmt.Errorf("constraint: unknown entity type %q", decl.Type)
		}
		if decl.Property == "" {
			return fmt.Errorf("constraint: declaration for %q has no property", decl.Type)
		}

		rules, err := decl.build()
		if err != nil {
			return err
		}
		reg.Register(t, decl.Property, rules...)
	}
	return nil
}

// build turns one declaration into its ordered rule list.
func (d *Declaration) build() ([]Rule, error) {
	var uniqueOpts []UniqueOption
	if d.IntRange != nil {
		uniqueOpts = append(uniqueOpts, IntRange(d.IntRange.Min, d.IntRange.Max))
	}

	var rules []Rule
	for _, name := range d.Rules {
		switch name {
		case "nonzero":
			rules = append(rules, NonZero())
		case "unique":
			rules = append(rules, Unique(uniqueOpts...))
		case "nonzeroid":
			rules = append(rules, NonZeroID(uniqueOpts...)...)
		default:
			return nil, fmt.Errorf("constraint: unknown rule %q for %s.%s", name, d.Type, d.Property)
		}
	}

	if d.Expr != "" {
		rule, err := NewExprRule(d.Expr)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("constraint: declaration for %s.%s has no rules", d.Type, d.Property)
	}
	return rules, nil
}
