// Package lock holds the distributed read/write lease document used by
// the object-store storage backend (spec §3, §4.8) and the admin auth
// token gate (spec §3 AuthTokenSet).
package lock

import "time"

// Mode selects whether admin_test_lock requests a shared or an exclusive
// hold on an event's lock document.
type Mode string

const (
	Shared    Mode = "shared"
	Exclusive Mode = "exclusive"
)

// Holder pairs an opaque caller-supplied token with its expiry.
type Holder struct {
	Token     string
	ExpiresAt time.Time
}

// TestLockDoc is the single per-event lock document (spec §4.8).
// SharedHolders and ExclusiveHolder are mutually exclusive: an exclusive
// holder may only exist when SharedHolders is empty, and vice versa.
type TestLockDoc struct {
	SharedHolders   map[string]time.Time
	ExclusiveHolder *Holder
}

// Expired reports whether h has already lapsed as of now.
func (h Holder) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// AuthTokenSet is the admin-listing auth gate (spec §3): a flat sequence of
// opaque valid tokens.
type AuthTokenSet struct {
	Tokens []string
}

// Valid reports whether token appears in the set.
func (s AuthTokenSet) Valid(token string) bool {
	for _, t := range s.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
