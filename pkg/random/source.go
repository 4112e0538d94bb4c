package random

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/getfixtr/fixtr/internal/id"
)

// Default bounds used when callers pass zero values for both bounds.
const (
	DefaultTextMinLen = 1
	DefaultTextMaxLen = 20
	DefaultIntMax     = 1000
	DefaultFloatMax   = 1000.0
	DefaultBytesLen   = 16
	DefaultWordCount  = 3
)

// DefaultDateSpan bounds default Date generation to the last ten years.
const DefaultDateSpan = 10 * 365 * 24 * time.Hour

// DefaultDurationMax bounds default Duration generation.
const DefaultDurationMax = time.Hour

// Source supplies random primitive values. Implementations must be safe for
// concurrent use; the engine may be driven from parallel test runners.
//
// For every bounded operation, passing the zero value for both bounds selects
// the package defaults.
type Source interface {
	// Seed reports the seed this source was created with, for reproducing
	// a failing run.
	Seed() uint64

	Int(min, max int) int
	Int64(min, max int64) int64
	Float64(min, max float64) float64
	Bool() bool
	Text(minLen, maxLen int) string
	Date(min, max time.Time) time.Time
	Duration(max time.Duration) time.Duration
	Bytes(n int) []byte

	// Domain-shaped values.
	Name() string
	Email() string
	URL() string
	Hostname() string
	Filename() string
	Words(n int) string
	Version() string

	// Identifiers. UUID is drawn from the seeded stream; ULID and ShortID
	// are always globally unique and ignore the seed.
	UUID() string
	ULID() string
	ShortID() string
}

// source is the gofakeit-backed default Source. The faker itself is not
// goroutine-safe, so every call holds the mutex.
type source struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	seed  uint64
}

// NewSource creates the default Source. Seed 0 picks a fresh seed from the
// clock; any other value makes the output sequence reproducible.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &source{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

func (s *source) Seed() uint64 { return s.seed }

func (s *source) Int(min, max int) int {
	if min == 0 && max == 0 {
		max = DefaultIntMax
	}
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(min, max)
}

func (s *source) Int64(min, max int64) int64 {
	if min == 0 && max == 0 {
		max = DefaultIntMax
	}
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.int64InRange(min, max)
}

// int64InRange draws uniformly from [min, max] without narrowing through int,
// so the full int64 domain is reachable on every platform. Callers hold mu.
func (s *source) int64InRange(min, max int64) int64 {
	span := uint64(max-min) + 1
	if span == 0 { // the whole int64 domain
		return int64(s.faker.Uint64())
	}
	return min + int64(s.faker.Uint64()%span)
}

func (s *source) Float64(min, max float64) float64 {
	if min == 0 && max == 0 {
		max = DefaultFloatMax
	}
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Float64Range(min, max)
}

func (s *source) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Bool()
}

func (s *source) Text(minLen, maxLen int) string {
	if minLen == 0 && maxLen == 0 {
		minLen, maxLen = DefaultTextMinLen, DefaultTextMaxLen
	}
	if maxLen < minLen {
		minLen, maxLen = maxLen, minLen
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.faker.Number(minLen, maxLen)
	if n <= 0 {
		return ""
	}
	return s.faker.LetterN(uint(n))
}

func (s *source) Date(min, max time.Time) time.Time {
	if min.IsZero() && max.IsZero() {
		max = time.Now()
		min = max.Add(-DefaultDateSpan)
	}
	if max.Before(min) {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.DateRange(min, max)
}

func (s *source) Duration(max time.Duration) time.Duration {
	if max <= 0 {
		max = DefaultDurationMax
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.int64InRange(1, int64(max)))
}

func (s *source) Bytes(n int) []byte {
	if n <= 0 {
		n = DefaultBytesLen
	}
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

func (s *source) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Name()
}

func (s *source) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Email()
}

func (s *source) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.URL()
}

func (s *source) Hostname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.DomainName()
}

func (s *source) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Word() + "." + s.faker.FileExtension()
}

func (s *source) Words(n int) string {
	if n <= 0 {
		n = DefaultWordCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	words := make([]string, n)
	for i := range words {
		words[i] = s.faker.Word()
	}
	return strings.Join(words, " ")
}

func (s *source) Version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.AppVersion()
}

func (s *source) UUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.UUID()
}

func (s *source) ULID() string { return id.ULID() }

func (s *source) ShortID() string { return id.Short() }
