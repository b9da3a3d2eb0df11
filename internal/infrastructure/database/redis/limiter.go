package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adsforge/adsforge/pkg/errors"
)

// limitScript counts a hit in the current window and sets the window expiry
// on first hit, atomically.
var limitScript = redis.NewScript(`
	local n = redis.call("INCR", KEYS[1])
	if n == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	return n
`)

// RateLimiter is a fixed-window request counter shared across instances.
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

// NewRateLimiter allows limit hits per key per window.
func (c *Client) NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: c, limit: limit, window: window}
}

// Allow counts one hit for key and reports whether it is within the limit.
// On Redis failure the request is allowed; availability wins over strictness
// for rate limiting.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.client.Key("ratelimit", key)
	res, err := limitScript.Run(ctx, l.client.Raw(), []string{redisKey}, l.window.Milliseconds()).Result()
	if err != nil {
		return true, errors.Wrap(err, errors.ErrCodeDatabaseError, "rate limit check failed")
	}
	return res.(int64) <= int64(l.limit), nil
}
