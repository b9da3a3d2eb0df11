package redis

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adsforge/adsforge/pkg/errors"
)

// Queue is a Redis-list job queue.  Producers LPUSH job IDs; workers BRPOP
// them, so delivery order is FIFO and a blocked worker wakes as soon as work
// arrives.
type Queue struct {
	client *Client
	key    string
}

// NewQueue builds a queue handle for name.
func (c *Client) NewQueue(name string) *Queue {
	return &Queue{client: c, key: c.Key("queue", name)}
}

// Enqueue pushes a job payload (normally the job's UUID) onto the queue.
func (q *Queue) Enqueue(ctx context.Context, payload string) error {
	if err := q.client.Raw().LPush(ctx, q.key, payload).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeJobEnqueueFailed, "failed to enqueue job")
	}
	return nil
}

// Dequeue blocks up to timeout for the next payload.  It returns ("", nil)
// on timeout so poll loops can distinguish idle from failure.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.client.Raw().BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to dequeue job")
	}
	// BRPop returns [key, value].
	if len(res) != 2 {
		return "", nil
	}
	return res[1], nil
}

// Length reports the number of pending payloads.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	n, err := q.client.Raw().LLen(ctx, q.key).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read queue length")
	}
	return n, nil
}
