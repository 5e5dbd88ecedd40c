package tenant

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize is the default maximum number of tenants kept in memory.
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long a positive lookup is served from memory.
const DefaultCacheTTL = 5 * time.Minute

// CachedRegistry fronts another Registry with an expiring LRU of positive lookups.
// Misses are never cached so a freshly created tenant is visible immediately.
type CachedRegistry struct {
	next  Registry
	size  int
	ttl   time.Duration
	cache *expirable.LRU[string, Tenant]
}

// CacheOption configures a CachedRegistry.
type CacheOption func(*CachedRegistry)

// WithCacheTTL overrides DefaultCacheTTL. Non-positive values are ignored.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedRegistry) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheSize overrides DefaultCacheSize. Non-positive values are ignored.
func WithCacheSize(size int) CacheOption {
	return func(c *CachedRegistry) {
		if size > 0 {
			c.size = size
		}
	}
}

// NewCachedRegistry wraps next with an in-memory cache.
func NewCachedRegistry(next Registry, opts ...CacheOption) *CachedRegistry {
	if next == nil {
		panic("tenant: Registry is required")
	}
	c := &CachedRegistry{
		next: next,
		size: DefaultCacheSize,
		ttl:  DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = expirable.NewLRU[string, Tenant](c.size, nil, c.ttl)
	return c
}

func (c *CachedRegistry) Lookup(ctx context.Context, id string) (*Tenant, error) {
	if t, ok := c.cache.Get(id); ok {
		return &t, nil
	}

	t, err := c.next.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.Add(id, *t)
	return t, nil
}

// Invalidate drops a cached tenant, e.g. after it was deleted upstream.
func (c *CachedRegistry) Invalidate(id string) {
	c.cache.Remove(id)
}

// Len reports the number of cached tenants.
func (c *CachedRegistry) Len() int {
	return c.cache.Len()
}
