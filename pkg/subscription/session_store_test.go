package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("get unknown key", func(t *testing.T) {
		t.Parallel()
		res, err := subscription.NewMemoryStore().Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("first write wins", func(t *testing.T) {
		t.Parallel()
		s := subscription.NewMemoryStore()
		require.NoError(t, s.Put(ctx, "k", subscription.SessionResult{ID: "a", RedirectURL: "https://a.test"}, time.Minute))
		require.NoError(t, s.Put(ctx, "k", subscription.SessionResult{ID: "b", RedirectURL: "https://b.test"}, time.Minute))

		res, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "a", res.ID)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()
		s := subscription.NewMemoryStore()
		require.NoError(t, s.Put(ctx, "k", subscription.SessionResult{ID: "a"}, 10*time.Millisecond))

		require.Eventually(t, func() bool {
			res, err := s.Get(ctx, "k")
			return err == nil && res == nil
		}, time.Second, 5*time.Millisecond)
		assert.Zero(t, s.Len())
	})

	t.Run("expired entries are swept periodically", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s := subscription.NewMemoryStore(
			subscription.WithStoreClock(func() time.Time { return now }),
			subscription.WithSweepInterval(time.Minute),
		)

		require.NoError(t, s.Put(ctx, "old", subscription.SessionResult{ID: "a"}, time.Second))
		now = now.Add(2 * time.Second)
		require.NoError(t, s.Put(ctx, "fresh", subscription.SessionResult{ID: "b"}, time.Hour))
		assert.Equal(t, 2, s.Len(), "no sweep before the interval elapses")

		now = now.Add(time.Minute)
		require.NoError(t, s.Put(ctx, "newer", subscription.SessionResult{ID: "c"}, time.Hour))
		assert.Equal(t, 2, s.Len())

		res, err := s.Get(ctx, "fresh")
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "b", res.ID)
	})
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*miniredis.Miniredis, *subscription.RedisStore) {
		t.Helper()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return mr, subscription.NewRedisStore(client, subscription.WithKeyPrefix("test:"))
	}

	t.Run("round trip with ttl", func(t *testing.T) {
		t.Parallel()
		mr, s := setup(t)

		want := subscription.SessionResult{ID: "cs_1", RedirectURL: "https://pay.test/cs_1"}
		require.NoError(t, s.Put(ctx, "k", want, 10*time.Minute))

		assert.True(t, mr.Exists("test:k"))
		assert.Equal(t, 10*time.Minute, mr.TTL("test:k"))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)

		mr.FastForward(11 * time.Minute)
		got, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("existing entry is kept", func(t *testing.T) {
		t.Parallel()
		_, s := setup(t)

		require.NoError(t, s.Put(ctx, "k", subscription.SessionResult{ID: "first"}, time.Minute))
		require.NoError(t, s.Put(ctx, "k", subscription.SessionResult{ID: "second"}, time.Minute))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "first", got.ID)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		t.Parallel()
		mr, s := setup(t)
		require.NoError(t, mr.Set("test:k", "{not json"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, subscription.ErrSessionStoreFailed)
	})

	t.Run("server down", func(t *testing.T) {
		t.Parallel()
		mr, s := setup(t)
		mr.Close()

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, subscription.ErrSessionStoreFailed)
		err = s.Put(ctx, "k", subscription.SessionResult{ID: "x"}, time.Minute)
		assert.ErrorIs(t, err, subscription.ErrSessionStoreFailed)
	})

	t.Run("nil client panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { subscription.NewRedisStore(nil) })
	})
}
