// Package testutil provides the shared Postgres fixture for the
// repository contract tests. Tests are skipped unless TEST_DATABASE_URL
// points at a disposable database.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/postgres"
)

// OpenMigratedPool connects to TEST_DATABASE_URL, applies the schema,
// and truncates the tables so each test starts clean. The pool is
// closed via t.Cleanup.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres contract tests")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE trips, ice_contacts RESTART IDENTITY`); err != nil {
		t.Fatalf("truncating test tables: %v", err)
	}
	return pool
}
