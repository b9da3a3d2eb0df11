package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adsforge/adsforge/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// unlockScript deletes the lock only when still owned by the caller.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// extendScript refreshes the TTL only when still owned by the caller.
var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Mutex is a single-holder distributed lock.  Each Mutex carries a random
// owner token so a crashed holder's expired lock cannot be released by
// another process.
type Mutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration
}

// NewMutex builds a lock for name.  The lock auto-expires after ttl to
// survive worker crashes.
func (c *Client) NewMutex(name string, ttl time.Duration) *Mutex {
	return &Mutex{
		client: c,
		key:    c.Key("lock", name),
		value:  uuid.New().String(),
		ttl:    ttl,
	}
}

// TryLock attempts a single non-blocking acquisition.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.Raw().SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to acquire lock")
	}
	return ok, nil
}

// Unlock releases the lock if still held by this owner.
func (m *Mutex) Unlock(ctx context.Context) error {
	res, err := unlockScript.Run(ctx, m.client.Raw(), []string{m.key}, m.value).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to release lock")
	}
	if res.(int64) == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Extend refreshes the TTL for long-running jobs.
func (m *Mutex) Extend(ctx context.Context) (bool, error) {
	res, err := extendScript.Run(ctx, m.client.Raw(), []string{m.key}, m.value, m.ttl.Milliseconds()).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to extend lock")
	}
	return res.(int64) == 1, nil
}
