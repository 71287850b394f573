package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeSingleComputationWithinTTL(t *testing.T) {
	cache := NewResultCache()
	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return "payload", nil
	}

	for i := 0; i < 5; i++ {
		got, err := cache.GetOrCompute(context.Background(), "k", time.Minute, compute)
		require.NoError(t, err)
		assert.Equal(t, "payload", got)
	}

	assert.Equal(t, 1, calls)
}

func TestGetOrComputeRecomputesAfterTTL(t *testing.T) {
	cache := NewResultCache()
	now := time.Now()
	cache.now = func() time.Time { return now }

	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	got, err := cache.GetOrCompute(context.Background(), "k", 5*time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// Still fresh just before expiry
	now = now.Add(5*time.Minute - time.Second)
	got, err = cache.GetOrCompute(context.Background(), "k", 5*time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, calls)

	// Stale after the TTL elapses; exactly one recomputation
	now = now.Add(2 * time.Second)
	got, err = cache.GetOrCompute(context.Background(), "k", 5*time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeDoesNotStoreFailures(t *testing.T) {
	cache := NewResultCache()
	boom := errors.New("upstream unavailable")

	_, err := cache.GetOrCompute(context.Background(), "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	// A later successful compute fills the slot normally
	got, err := cache.GetOrCompute(context.Background(), "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, cache.Len())
}

func TestGetOrComputeCancelledContextStoresNothing(t *testing.T) {
	cache := NewResultCache()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := cache.GetOrCompute(ctx, "k", time.Minute, func(ctx context.Context) (interface{}, error) {
		cancel() // request dies while the computation is in flight
		return "partial", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, cache.Len())
}

func TestInvalidateForcesRecompute(t *testing.T) {
	cache := NewResultCache()
	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := cache.GetOrCompute(context.Background(), "k", time.Minute, compute)
	require.NoError(t, err)

	cache.Invalidate("k")

	got, err := cache.GetOrCompute(context.Background(), "k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestCacheKeyNormalizesParameterOrder(t *testing.T) {
	a := CacheKey("trending", map[string]string{"window": "24h", "direction": "all", "limit": "10"})
	b := CacheKey("trending", map[string]string{"limit": "10", "window": "24h", "direction": "all"})
	assert.Equal(t, a, b)

	// Different parameters or scopes get independent slots
	c := CacheKey("trending", map[string]string{"window": "6h", "direction": "all", "limit": "10"})
	assert.NotEqual(t, a, c)
	d := CacheKey("summary", map[string]string{"window": "24h", "direction": "all", "limit": "10"})
	assert.NotEqual(t, a, d)
}
