package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisLocker hands out redsync mutexes as leases.
type RedisLocker struct {
	locker *redsync.Redsync
}

var _ i.Locker = &RedisLocker{}

// NewRedisLocker creates a RedisLocker on top of client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	pool := goredis.NewPool(client)
	return &RedisLocker{locker: redsync.New(pool)}
}

// Acquire tries the lock on key once. Contention is reported as
// i.ErrLeaseTaken; redis failures are returned as they are.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (i.Lease, error) {
	mutex := l.locker.NewMutex(key+":lock", redsync.WithExpiry(ttl), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
			return nil, fmt.Errorf("%w: %s", i.ErrLeaseTaken, key)
		}
		return nil, err
	}
	return &redisLease{mutex: mutex}, nil
}

type redisLease struct {
	mutex    *redsync.Mutex
	released bool
}

func (r *redisLease) Extend(ctx context.Context) error {
	_, err := r.mutex.ExtendContext(ctx)
	return err
}

func (r *redisLease) Release(ctx context.Context) error {
	if r.released {
		return nil
	}
	r.released = true
	_, err := r.mutex.UnlockContext(ctx)
	return err
}
