package tenant

import "context"

// Tenant is the minimal tenant view the checkout flow needs.
// It is owned by the registry; callers only read it.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry is the authoritative source of tenant identifiers.
type Registry interface {
	// Lookup returns the tenant with the given identifier.
	// Returns ErrTenantNotFound if no tenant matches.
	Lookup(ctx context.Context, id string) (*Tenant, error)
}

// RegistryFunc adapts a plain function to the Registry interface.
type RegistryFunc func(ctx context.Context, id string) (*Tenant, error)

func (f RegistryFunc) Lookup(ctx context.Context, id string) (*Tenant, error) {
	return f(ctx, id)
}
