package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/pkg/config"
)

func TestMemoryCacheIncrementAndExpire(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	n, err := m.Increment(ctx, "rl:1.2.3.4")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, m.Expire(ctx, "rl:1.2.3.4", time.Minute))

	n, _ = m.Increment(ctx, "rl:1.2.3.4")
	assert.EqualValues(t, 2, n)

	clock = clock.Add(time.Minute)
	_, err = m.Get(ctx, "rl:1.2.3.4")
	assert.ErrorIs(t, err, ErrMiss)

	n, _ = m.Increment(ctx, "rl:1.2.3.4")
	assert.EqualValues(t, 1, n, "counter restarts after the window")
}

func TestMemoryCacheConcurrentIncrement(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Increment(ctx, "hits")
		}()
	}
	wg.Wait()

	v, err := m.Get(ctx, "hits")
	require.NoError(t, err)
	assert.Equal(t, "50", v)
}

func TestNewFallsBackToMemory(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	_, ok := c.(*MemoryCache)
	assert.True(t, ok)
	assert.NoError(t, c.Ping(context.Background()))
}
