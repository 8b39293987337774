// Package locking implements locking.RequestLocker in process and on Redis.
package locking

import (
	"context"
	"sync"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/locking"
)

// KeyedMutex is an in-process RequestLocker. It only serializes callers within
// one replica; use RedisLocker when running more than one.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]struct{})}
}

var _ locking.RequestLocker = (*KeyedMutex)(nil)

// TryLock acquires key or fails immediately with locking.ErrLockHeld.
func (k *KeyedMutex) TryLock(ctx context.Context, key string) (locking.Unlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.held[key]; ok {
		return nil, locking.ErrLockHeld
	}
	k.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			delete(k.held, key)
			k.mu.Unlock()
		})
	}, nil
}
