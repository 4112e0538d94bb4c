package constraint

import "sync"

// claimDrawAttempts bounds random draws per domain size before the tracker
// falls back to a linear scan and then expands the domain.
const claimDrawAttempts = 16

// Tracker records values already issued per (type, property) key so Unique
// rules can prevent repeats across all entities generated within one scope.
//
// Issued sets grow monotonically for the tracker's lifetime; Reset starts a
// new scope. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	issued map[Key]map[any]struct{}
	bounds map[Key]int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		issued: make(map[Key]map[any]struct{}),
		bounds: make(map[Key]int64),
	}
}

// Claim records v for the key if it has not been issued before.
// Returns false when v was already issued.
func (t *Tracker) Claim(key Key, v any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.issued[key]
	if set == nil {
		set = make(map[any]struct{})
		t.issued[key] = set
	}
	if _, taken := set[v]; taken {
		return false
	}
	set[v] = struct{}{}
	return true
}

// ClaimInt issues an integer in [min, current] that has never been issued for
// the key, drawing candidates with draw. The current upper bound starts at
// max and expands by the initial span whenever the domain is exhausted, so
// ClaimInt always succeeds and the effective domain grows monotonically
// across many generations.
func (t *Tracker) ClaimInt(key Key, min, max int64, draw func(lo, hi int64) int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.issued[key]
	if set == nil {
		set = make(map[any]struct{})
		t.issued[key] = set
	}

	span := max - min + 1
	if span < 1 {
		span = 1
	}
	cur := t.bounds[key]
	if cur < max {
		cur = max
	}

	for {
		for i := 0; i < claimDrawAttempts; i++ {
			v := draw(min, cur)
			if _, taken := set[v]; !taken {
				set[v] = struct{}{}
				t.bounds[key] = cur
				return v
			}
		}
		// Random draws keep colliding. Take the first free slot if any
		// remain at the current bound, otherwise expand and retry.
		if int64(len(set)) < cur-min+1 {
			for v := min; v <= cur; v++ {
				if _, taken := set[v]; !taken {
					set[v] = struct{}{}
					t.bounds[key] = cur
					return v
				}
			}
		}
		cur += span
	}
}

// Issued reports how many values have been issued for the key.
func (t *Tracker) Issued(key Key) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.issued[key])
}

// Bound reports the current upper bound for ranged integer claims on the key.
// Returns 0 when no ranged claim has been made.
func (t *Tracker) Bound(key Key) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bounds[key]
}

// Reset drops all issued values and bounds, starting a new uniqueness scope.
// Intended for suite-level boundaries.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued = make(map[Key]map[any]struct{})
	t.bounds = make(map[Key]int64)
}
