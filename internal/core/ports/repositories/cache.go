package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained is returned by Locker when another holder owns the key.
var ErrLockNotObtained = errors.New("lock not obtained")

// ReportCache stores computed reports per workplace.
type ReportCache interface {
	// Get decodes the cached value for key into dest and reports whether it was found.
	Get(ctx context.Context, workplaceID, key string, dest any) (bool, error)
	Set(ctx context.Context, workplaceID, key string, value any, ttl time.Duration) error
	// InvalidateWorkplace drops every cached report of the workplace.
	InvalidateWorkplace(ctx context.Context, workplaceID string) error
}

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out short-lived distributed locks.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
