// Property-based tests for per-player locking.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestWithLockContextSerializesProperty tests that one player's work is serialized.
// *For any* number of concurrent increments on one player, the final count
// equals the number of increments.
func TestWithLockContextSerializesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		playerID := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "playerID")
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")
		step := rapid.IntRange(1, 100).Draw(t, "step")

		pl := NewPlayerLock()
		total := 0

		var wg sync.WaitGroup
		errs := make(chan error, numOps)
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				errs <- pl.WithLockContext(context.Background(), playerID, time.Minute, func() error {
					total += step
					return nil
				})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if total != numOps*step {
			t.Fatalf("total %d, want %d", total, numOps*step)
		}
	})
}

// TestIndependentPlayersProperty tests that players do not share a lock.
// *For any* set of players, holding one player's lock never blocks another.
func TestIndependentPlayersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numPlayers := rapid.IntRange(2, 10).Draw(t, "numPlayers")
		pl := NewPlayerLock()
		ctx := context.Background()

		err := pl.WithLockContext(ctx, "player-0", time.Second, func() error {
			for i := 1; i < numPlayers; i++ {
				id := fmt.Sprintf("player-%d", i)
				if err := pl.WithLockContext(ctx, id, 50*time.Millisecond, func() error { return nil }); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("blocked by another player's lock: %v", err)
		}
	})
}

func TestWithLockContext_Timeout(t *testing.T) {
	pl := NewPlayerLock()
	ctx := context.Background()
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = pl.WithLockContext(ctx, "chef", time.Second, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := pl.WithLockContext(ctx, "chef", 10*time.Millisecond, func() error {
		t.Error("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)

	close(release)
	ran := false
	err = pl.WithLockContext(ctx, "chef", time.Second, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithLockContext_CancelledWhileWaiting(t *testing.T) {
	pl := NewPlayerLock()
	held := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_ = pl.WithLockContext(context.Background(), "chef", time.Second, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pl.WithLockContext(ctx, "chef", time.Minute, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithLockContext_ReturnsFnError(t *testing.T) {
	pl := NewPlayerLock()
	boom := errors.New("boom")

	err := pl.WithLockContext(context.Background(), "chef", time.Second, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	// The lock is released after an error.
	err = pl.WithLockContext(context.Background(), "chef", 50*time.Millisecond, func() error { return nil })
	assert.NoError(t, err)
}
