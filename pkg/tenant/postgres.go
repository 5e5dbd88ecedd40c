package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/trialkit/pkg/pg"
)

// Querier is the subset of *pgxpool.Pool used by PostgresRegistry.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const lookupTenantQuery = `SELECT id, name FROM tenants WHERE id = $1 AND deleted_at IS NULL`

// PostgresRegistry reads tenants from the tenants table created by the bundled migrations.
type PostgresRegistry struct {
	db Querier
}

// NewPostgresRegistry creates a registry backed by db.
// Panics if db is nil to fail fast during initialization.
func NewPostgresRegistry(db Querier) *PostgresRegistry {
	if db == nil {
		panic("tenant: Querier is required")
	}
	return &PostgresRegistry{db: db}
}

// Lookup runs a single-row query; pgx.ErrNoRows maps to ErrTenantNotFound.
func (r *PostgresRegistry) Lookup(ctx context.Context, id string) (*Tenant, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var t Tenant
	if err := r.db.QueryRow(ctx, lookupTenantQuery, id).Scan(&t.ID, &t.Name); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}
	return &t, nil
}
