package builder

// SkipReason says why a property was left at its zero value.
type SkipReason string

const (
	// ReasonDepth: the recursion budget was exhausted.
	ReasonDepth SkipReason = "depth"

	// ReasonCycle: the property's type is already on the recursion chain.
	ReasonCycle SkipReason = "cycle"

	// ReasonUnsupported: the property's type cannot be generated.
	ReasonUnsupported SkipReason = "unsupported"

	// ReasonAssignment: the entity rejected the value (validating setter
	// returned an error or panicked, or the value was not assignable).
	ReasonAssignment SkipReason = "assignment"

	// ReasonRetries: a constraint's redraw budget ran out; the property
	// keeps its last drawn value rather than being unset.
	ReasonRetries SkipReason = "retries"

	// ReasonConstruction: a nested entity's construction strategy failed.
	ReasonConstruction SkipReason = "construction"
)

// Skip records one property the engine could not fully populate.
type Skip struct {
	// Property is the dotted path from the entity root, e.g. "Address.City".
	Property string

	// Reason classifies the skip.
	Reason SkipReason

	// Err carries the underlying failure when one exists.
	Err error
}

// Report collects population diagnostics. Population itself never fails for
// per-property conditions; the report makes them observable for debugging.
type Report struct {
	Skipped []Skip
}

// Skipped paths with the given reason.
func (r *Report) ByReason(reason SkipReason) []Skip {
	var out []Skip
	for _, s := range r.Skipped {
		if s.Reason == reason {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether the property path appears in the skip list.
func (r *Report) Has(property string) bool {
	for _, s := range r.Skipped {
		if s.Property == property {
			return true
		}
	}
	return false
}

func (r *Report) add(property string, reason SkipReason, err error) {
	r.Skipped = append(r.Skipped, Skip{Property: property, Reason: reason, Err: err})
}

func (r *Report) merge(other *Report) {
	if other != nil {
		r.Skipped = append(r.Skipped, other.Skipped...)
	}
}
