// Package id provides unique identifier generation utilities.
// This is the canonical source for ID generation across the codebase.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UUID generates a UUID v4 (random) string in the canonical
// xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx format.
func UUID() string {
	return uuid.NewString()
}

// Short generates a short random hex ID (16 characters).
// Suitable for user-facing IDs where brevity matters.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ulidEncoding uses Crockford's Base32 (excludes I, L, O, U to avoid ambiguity).
const ulidEncoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu      sync.Mutex
	ulidLastMs  int64
	ulidCounter uint16
)

// ULID generates a new ULID (Universally Unique Lexicographically Sortable
// Identifier). ULIDs are 26 characters long and time-sortable:
// 10 characters of millisecond timestamp followed by 16 of randomness.
func ULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	now := time.Now().UnixMilli()
	if now == ulidLastMs {
		ulidCounter++
		if ulidCounter == 0 {
			// Counter overflow, wait for the next millisecond.
			for now == ulidLastMs {
				time.Sleep(time.Millisecond)
				now = time.Now().UnixMilli()
			}
		}
	} else {
		ulidLastMs = now
		ulidCounter = 0
	}

	return encodeULID(now, ulidCounter)
}

// encodeULID encodes a timestamp and counter into a ULID string.
func encodeULID(ms int64, counter uint16) string {
	out := make([]byte, 26)

	// Timestamp: 48 bits across the first 10 characters, 5 bits each,
	// most significant first.
	for i := 9; i >= 0; i-- {
		out[i] = ulidEncoding[ms&0x1F]
		ms >>= 5
	}

	// Randomness: 80 bits across the last 16 characters.
	random := make([]byte, 10)
	_, _ = rand.Read(random)
	random[0] ^= byte(counter >> 8)
	random[1] ^= byte(counter)

	var acc uint32
	var bits uint
	pos := 10
	for _, b := range random {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = ulidEncoding[(acc>>bits)&0x1F]
			pos++
		}
	}

	return string(out)
}

// IsValidULID checks whether a string is a valid ULID.
func IsValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isValidULIDChar(s[i]) {
			return false
		}
	}
	return true
}

func isValidULIDChar(c byte) bool {
	for i := 0; i < len(ulidEncoding); i++ {
		if ulidEncoding[i] == c {
			return true
		}
	}
	return false
}
