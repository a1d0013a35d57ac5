package lock

import "time"

// AcquireResult reports what an Acquire call did.
type AcquireResult struct {
	Acquired bool
	IsFirst  bool
}

// Evict removes every holder in doc whose lease has lapsed as of now,
// matching spec §4.8 step 2 (shared holders by retain, exclusive holder by
// clear-if-expired).
func Evict(doc TestLockDoc, now time.Time) TestLockDoc {
	if doc.SharedHolders != nil {
		live := make(map[string]time.Time, len(doc.SharedHolders))
		for token, expiresAt := range doc.SharedHolders {
			if expiresAt.After(now) {
				live[token] = expiresAt
			}
		}
		doc.SharedHolders = live
	}
	if doc.ExclusiveHolder != nil && doc.ExclusiveHolder.Expired(now) {
		doc.ExclusiveHolder = nil
	}
	return doc
}

// Acquire runs the full admin_test_lock algorithm (spec §4.8) against an
// in-memory copy of the lock document: evict expired holders, optionally
// force-clear, then attempt to add token under mode. It returns the updated
// document and whether the lock was acquired.
func Acquire(doc TestLockDoc, now time.Time, token string, ttl time.Duration, mode Mode, force bool) (TestLockDoc, AcquireResult) {
	doc = Evict(doc, now)
	if force {
		doc.SharedHolders = nil
		doc.ExclusiveHolder = nil
	}
	if doc.SharedHolders == nil {
		doc.SharedHolders = map[string]time.Time{}
	}

	expiresAt := now.Add(ttl)
	hasLiveExclusive := doc.ExclusiveHolder != nil && !doc.ExclusiveHolder.Expired(now)

	switch mode {
	case Shared:
		if hasLiveExclusive {
			return doc, AcquireResult{Acquired: false}
		}
		wasEmpty := len(doc.SharedHolders) == 0
		doc.SharedHolders[token] = expiresAt
		return doc, AcquireResult{Acquired: true, IsFirst: wasEmpty}
	case Exclusive:
		if hasLiveExclusive || len(doc.SharedHolders) > 0 {
			return doc, AcquireResult{Acquired: false}
		}
		doc.ExclusiveHolder = &Holder{Token: token, ExpiresAt: expiresAt}
		return doc, AcquireResult{Acquired: true, IsFirst: true}
	default:
		return doc, AcquireResult{Acquired: false}
	}
}

// Release removes token from wherever it holds a lease. It reports whether
// the document is now empty (the caller was the last holder) so the
// backend can delete the key instead of rewriting an empty document.
func Release(doc TestLockDoc, token string) (TestLockDoc, bool) {
	if doc.ExclusiveHolder != nil && doc.ExclusiveHolder.Token == token {
		doc.ExclusiveHolder = nil
	}
	if doc.SharedHolders != nil {
		delete(doc.SharedHolders, token)
	}
	empty := doc.ExclusiveHolder == nil && len(doc.SharedHolders) == 0
	return doc, empty
}

// IsConsistent checks the mutual-exclusion invariant (spec §3, §8): an
// exclusive holder and non-empty shared holders never coexist.
func IsConsistent(doc TestLockDoc) bool {
	return doc.ExclusiveHolder == nil || len(doc.SharedHolders) == 0
}
