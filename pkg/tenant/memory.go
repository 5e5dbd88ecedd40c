package tenant

import (
	"context"
	"sync"
)

// MemoryRegistry keeps tenants in a map. Useful for tests and local development.
type MemoryRegistry struct {
	mu      sync.RWMutex
	tenants map[string]Tenant
}

// NewMemoryRegistry returns a registry seeded with the given tenants.
func NewMemoryRegistry(tenants ...Tenant) *MemoryRegistry {
	r := &MemoryRegistry{tenants: make(map[string]Tenant, len(tenants))}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

// Add inserts or replaces a tenant.
func (r *MemoryRegistry) Add(t Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
}

// Lookup returns a copy of the stored tenant so callers cannot mutate registry state.
func (r *MemoryRegistry) Lookup(ctx context.Context, id string) (*Tenant, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return &t, nil
}
