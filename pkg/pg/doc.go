// Package pg bootstraps the PostgreSQL pool that backs the tenant registry.
//
// It wraps pgx/v5 for connectivity and goose/v3 for schema migrations:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, ".", log); err != nil {
//		return err
//	}
//
// Healthcheck adapts the pool to an httpserver.Check for the readiness probe.
package pg
