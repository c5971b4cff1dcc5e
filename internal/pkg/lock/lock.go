// Package lock serializes work across processes. A Redis-backed locker is used when Redis is
// configured; a process-local one otherwise.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotObtained = errors.New("lock not obtained")

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtains named locks. Obtain waits up to wait for the lock to free up and returns
// ErrNotObtained when it does not.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl, wait time.Duration) (Lock, error)
}
