package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "aquadash/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker(time.Second)

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "order-1")
			require.NoError(t, err)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots, "slots are released once no one holds or waits")
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)

	unlockA, err := l.Lock(context.Background(), "order-a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(context.Background(), "order-b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_WaitTimeout(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)

	unlock, err := l.Lock(context.Background(), "order-1")
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), "order-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLockTimeout))

	unlock()
	unlock() // idempotent

	again, err := l.Lock(context.Background(), "order-1")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker(0)

	unlock, err := l.Lock(context.Background(), "order-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
}
