package i

import (
	"context"
	"errors"
	"time"
)

// ErrLeaseTaken is returned by Acquire when another holder owns the key.
var ErrLeaseTaken = errors.New("lease is held by another owner")

// Locker hands out exclusive, expiring leases on string keys.
type Locker interface {
	// Acquire obtains the lease on key or fails immediately with ErrLeaseTaken
	// if it is held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock.
type Lease interface {
	// Extend pushes the expiry forward by the lease's ttl.
	Extend(ctx context.Context) error
	// Release gives the lock up. Releasing twice is not an error.
	Release(ctx context.Context) error
}
