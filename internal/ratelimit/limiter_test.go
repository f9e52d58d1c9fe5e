package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/pkg/redis"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*redis.WindowStore)(nil)
)

func TestLimiter_SlidingWindow(t *testing.T) {
	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	l := New(NewMemoryStore(), 3, time.Minute)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "client-a")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
		clock = clock.Add(10 * time.Second)
	}

	d, err := l.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// Other keys are independent
	d, err = l.Allow(ctx, "client-b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// First hit (10:00:00) leaves the window at 10:01:00
	clock = time.Date(2024, 1, 1, 10, 1, 0, 1, time.UTC)
	d, err = l.Allow(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := s.Hit(context.Background(), "k", now, time.Minute, 20)
			require.NoError(t, err)
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, allowed)
}

func TestMemoryStore_Sweep(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	ctx := context.Background()

	_, _, _ = s.Hit(ctx, "old", now.Add(-2*time.Minute), time.Minute, 5)
	_, _, _ = s.Hit(ctx, "fresh", now, time.Minute, 5)
	require.Equal(t, 2, s.Len())

	assert.Equal(t, 1, s.Sweep(now, time.Minute))
	assert.Equal(t, 1, s.Len())
}
