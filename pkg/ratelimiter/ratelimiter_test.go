package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/ratelimiter"
)

var testConfig = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore()
	for name, cfg := range map[string]ratelimiter.Config{
		"zero capacity": {Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		"zero rate":     {Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		"zero interval": {Capacity: 1, RefillRate: 1},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(store, cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}

	_, err := ratelimiter.NewBucket(nil, testConfig)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func stores(t *testing.T) map[string]ratelimiter.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]ratelimiter.Store{
		"memory": ratelimiter.NewMemoryStore(),
		"redis":  ratelimiter.NewRedisStore(client),
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			clk := newClock()
			b, err := ratelimiter.NewBucket(store, testConfig, ratelimiter.WithClock(clk.Now))
			require.NoError(t, err)

			for want := 2; want >= 0; want-- {
				res, err := b.Allow(ctx, "burst")
				require.NoError(t, err)
				assert.True(t, res.Allowed())
				assert.Equal(t, want, res.Remaining)
				assert.Equal(t, 3, res.Limit)
			}

			res, err := b.Allow(ctx, "burst")
			require.NoError(t, err)
			assert.False(t, res.Allowed())
			assert.Equal(t, time.Second, res.RetryAfter(clk.Now()))

			// Denied requests do not drain the bucket further.
			clk.Advance(time.Second)
			res, err = b.Allow(ctx, "burst")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, 0, res.Remaining)

			clk.Advance(10 * time.Second)
			res, err = b.Allow(ctx, "burst")
			require.NoError(t, err)
			assert.Equal(t, 2, res.Remaining)

			other, err := b.Allow(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, 2, other.Remaining)
		})
	}
}

func TestBucket_Reset(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
			require.NoError(t, err)

			_, err = b.Allow(ctx, "k")
			require.NoError(t, err)
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.False(t, res.Allowed())

			require.NoError(t, b.Reset(ctx, "k"))
			res, err = b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
		})
	}
}

func TestBucket_AllowN(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), testConfig)
	require.NoError(t, err)

	_, err = b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	res, err := b.AllowN(context.Background(), "k", 4)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, -1, res.Remaining)
}

func TestMemoryStore_DropsIdleBuckets(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore()
	clk := newClock()
	b, err := ratelimiter.NewBucket(store, testConfig, ratelimiter.WithClock(clk.Now))
	require.NoError(t, err)

	_, err = b.AllowN(context.Background(), "k", 3)
	require.NoError(t, err)
	clk.Advance(time.Hour)

	res, err := b.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, 1, store.Len())
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	b, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client), testConfig)
	require.NoError(t, err)

	_, err = b.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}
