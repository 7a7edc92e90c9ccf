// Package lock provides per-player locking so that one player's engine is
// created and loaded only once.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a player's lock is not acquired in time.
var ErrLockTimeout = errors.New("player lock acquisition timeout")

// PlayerLock provides one lock per player ID. A lock is a one-slot channel,
// so waiting for it can be abandoned.
type PlayerLock struct {
	slots sync.Map // map[string]chan struct{}
}

// NewPlayerLock creates a new PlayerLock instance.
func NewPlayerLock() *PlayerLock {
	return &PlayerLock{}
}

// slot retrieves or creates the lock of a player.
func (pl *PlayerLock) slot(playerID string) chan struct{} {
	if v, ok := pl.slots.Load(playerID); ok {
		return v.(chan struct{})
	}
	v, _ := pl.slots.LoadOrStore(playerID, make(chan struct{}, 1))
	return v.(chan struct{})
}

// WithLockContext runs fn while holding the player's lock. It returns
// ErrLockTimeout if the lock is not acquired within timeout, or the context
// error if ctx ends first.
func (pl *PlayerLock) WithLockContext(ctx context.Context, playerID string, timeout time.Duration, fn func() error) error {
	slot := pl.slot(playerID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
	case <-timer.C:
		return ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-slot }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}
