// Package locking provides per-key mutual exclusion for credit requests.
package locking

import (
	"context"
	"errors"
)

// ErrLockHeld is returned by TryLock when another holder owns the key.
var ErrLockHeld = errors.New("lock is held by another holder")

// Unlock releases a lock obtained from TryLock. It is safe to call once.
type Unlock func()

// RequestLocker grants exclusive access to a key without blocking.
type RequestLocker interface {
	TryLock(ctx context.Context, key string) (Unlock, error)
}
