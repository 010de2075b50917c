package locker

import (
	"context"
	"errors"
)

// ErrLocked is returned by TryLock when another holder owns the key.
var ErrLocked = errors.New("lock already held")

// Locker hands out short-lived exclusive leases on string keys.
type Locker interface {
	// TryLock acquires key without waiting. The returned release func is safe to
	// call more than once and only frees the lease this call acquired.
	TryLock(ctx context.Context, key string) (release func(), err error)
}
