package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces session keys in a shared Redis.
const DefaultRedisKeyPrefix = "trialkit:session:"

var ErrSessionStoreFailed = errors.New("session store operation failed")

// RedisStore is a SessionStore shared by every instance behind a load balancer.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a Redis backed session store.
// Panics if client is nil.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	if client == nil {
		panic("subscription: redis client is required")
	}
	s := &RedisStore{client: client, prefix: DefaultRedisKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) (*SessionResult, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrSessionStoreFailed, err)
	}

	var res SessionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, errors.Join(ErrSessionStoreFailed, err)
	}
	return &res, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, res SessionResult, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return errors.Join(ErrSessionStoreFailed, err)
	}
	if err := s.client.SetNX(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return errors.Join(ErrSessionStoreFailed, err)
	}
	return nil
}
