// Package random supplies primitive random values to the generation engine.
//
// The Source interface covers the primitive kinds the engine knows how to
// assign: numbers, text, booleans, dates, byte blobs, identifiers, and a
// handful of domain-shaped strings (emails, URLs, hostnames, filenames,
// version strings). The engine consumes Source; it never generates a
// primitive itself.
//
// NewSource returns the default implementation, backed by gofakeit. Pass a
// non-zero seed for reproducible output:
//
//	src := random.NewSource(42)
//	src.Email() // same sequence every run
//
// With seed 0 the source is nondeterministic and Seed() reports the seed that
// was actually chosen, so a failing test can log it for replay.
//
// All bound parameters are optional in spirit: passing zero values for both
// bounds selects the documented defaults (text length 1-20, integers in
// [0, 1000], dates within the last ten years).
package random
