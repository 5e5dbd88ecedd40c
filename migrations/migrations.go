// Package migrations embeds the goose migrations for the tenant registry.
package migrations

import "embed"

// FS holds the SQL migrations; pass "." as the directory to pg.Migrate.
//
//go:embed *.sql
var FS embed.FS
