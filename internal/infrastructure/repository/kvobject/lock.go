package kvobject

import (
	"context"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/lock"
)

// AdminTestLock wires the pure lock.Acquire algorithm (spec §4.8) against
// the Redis-stored event:{id}:test_lock document: read, run the
// in-memory transition, write back.
func (r *Repository) AdminTestLock(ctx context.Context, eventID int64, token string, ttl time.Duration, mode lock.Mode, force bool) (bool, bool, error) {
	var doc lock.TestLockDoc
	found, err := r.getJSON(ctx, testLockKey(eventID), &doc)
	if err != nil {
		return false, false, err
	}
	if !found {
		doc = lock.TestLockDoc{SharedHolders: map[string]time.Time{}}
	}

	updated, result := lock.Acquire(doc, r.now(), token, ttl, mode, force)
	if err := r.putJSON(ctx, testLockKey(eventID), updated); err != nil {
		return false, false, err
	}
	return result.Acquired, result.IsFirst, nil
}

// AdminTestUnlock wires the pure lock.Release algorithm. If token was the
// last holder, the lock document is deleted outright instead of being
// rewritten empty.
func (r *Repository) AdminTestUnlock(ctx context.Context, eventID int64, token string) (bool, error) {
	var doc lock.TestLockDoc
	found, err := r.getJSON(ctx, testLockKey(eventID), &doc)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	updated, empty := lock.Release(doc, token)
	if empty {
		if err := r.redis.Del(ctx, testLockKey(eventID)).Err(); err != nil {
			return false, corerr.FromStorageErr("delete test lock", err)
		}
		return true, nil
	}
	if err := r.putJSON(ctx, testLockKey(eventID), updated); err != nil {
		return false, err
	}
	return false, nil
}

// AdminTestUnlockAll scans every event:*:test_lock key and deletes it
// (spec §4.8 admin force-clear-all, grounded on the original's
// storage_admin_lock prefix scan).
func (r *Repository) AdminTestUnlockAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, lockPrefix, 100).Result()
		if err != nil {
			return corerr.FromStorageErr("scan test lock keys", err)
		}
		if len(keys) > 0 {
			if err := r.redis.Del(ctx, keys...).Err(); err != nil {
				return corerr.FromStorageErr("delete test lock keys", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
