package lock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/lock"
)

func TestAcquireExclusiveContention(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, winner := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Minute, lock.Exclusive, false)
	require.True(t, winner.Acquired)
	require.True(t, winner.IsFirst)

	_, loser := lock.Acquire(doc, now, "tok-b", time.Minute, lock.Exclusive, false)
	require.False(t, loser.Acquired)
	require.True(t, lock.IsConsistent(doc))
}

func TestAcquireSharedCoexist(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, a := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Minute, lock.Shared, false)
	require.True(t, a.Acquired)
	require.True(t, a.IsFirst)

	doc, b := lock.Acquire(doc, now, "tok-b", time.Minute, lock.Shared, false)
	require.True(t, b.Acquired)
	require.False(t, b.IsFirst)
	require.True(t, lock.IsConsistent(doc))

	_, excl := lock.Acquire(doc, now, "tok-c", time.Minute, lock.Exclusive, false)
	require.False(t, excl.Acquired)
}

func TestAcquireExpiredHoldersAreEvicted(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, _ := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Second, lock.Exclusive, false)
	later := now.Add(2 * time.Second)

	doc, result := lock.Acquire(doc, later, "tok-b", time.Minute, lock.Exclusive, false)
	require.True(t, result.Acquired)
	require.True(t, result.IsFirst)
	require.True(t, lock.IsConsistent(doc))
}

func TestAcquireForceClearsAllHolders(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, _ := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Minute, lock.Exclusive, false)
	doc, result := lock.Acquire(doc, now, "tok-b", time.Minute, lock.Exclusive, true)
	require.True(t, result.Acquired)
	require.True(t, result.IsFirst)
}

func TestReleaseLastHolderEmptiesDoc(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, _ := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Minute, lock.Shared, false)
	_, wasLast := lock.Release(doc, "tok-a")
	require.True(t, wasLast)
}

func TestReleaseNotLastHolder(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	doc, _ := lock.Acquire(lock.TestLockDoc{}, now, "tok-a", time.Minute, lock.Shared, false)
	doc, _ = lock.Acquire(doc, now, "tok-b", time.Minute, lock.Shared, false)

	doc, wasLast := lock.Release(doc, "tok-a")
	require.False(t, wasLast)
	require.True(t, lock.IsConsistent(doc))
}
