// Package tenant provides read-only access to the tenant registry used by checkout.
//
// The checkout flow only needs to know whether a tenant identifier exists, so the
// package exposes a single query, Registry.Lookup, with three implementations:
//
//   - MemoryRegistry for tests and local development
//   - PostgresRegistry reading the tenants table (see migrations/)
//   - CachedRegistry, an LRU decorator for any other Registry
//
// Example:
//
//	pool, _ := pg.Connect(ctx, pgCfg)
//	registry := tenant.NewCachedRegistry(
//		tenant.NewPostgresRegistry(pool),
//		tenant.WithCacheTTL(time.Minute),
//	)
//
//	t, err := registry.Lookup(ctx, "acme")
//	if errors.Is(err, tenant.ErrTenantNotFound) {
//		// reject the request
//	}
package tenant
