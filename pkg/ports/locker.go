package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes access to a workbook file.
// Implementations range from an in-process mutex map to a Redis lock shared
// by several replicas.
type Locker interface {
	// Lock acquires the lock for key (normally the workbook path).
	// It blocks until the lock is acquired or the context is canceled.
	// The ttl bounds how long a crashed holder can keep a distributed lock.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
