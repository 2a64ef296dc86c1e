// Package postgres holds the shared Postgres plumbing used by the
// repository adapters in its subpackages.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueViolationCode is the SQLSTATE for unique constraint violations.
const UniqueViolationCode = "23505"

// AsPgError unwraps a *pgconn.PgError when err carries one.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// NewPool connects to the database and verifies the connection with a
// bounded ping.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

// Migrate applies the schema. Statements are idempotent so repeated
// startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS trips (
			id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			user_id           TEXT        NOT NULL,
			location          TEXT        NOT NULL,
			trip_date         DATE        NOT NULL,
			start_time        TEXT        NOT NULL,
			duration          INT         NOT NULL,
			participants      TEXT        NOT NULL DEFAULT '',
			emergency_contact TEXT        NOT NULL DEFAULT '',
			trip_name         TEXT,
			created_at        TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_trips_user_created
			ON trips(user_id, created_at DESC, id DESC);

		CREATE TABLE IF NOT EXISTS ice_contacts (
			id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			user_id       TEXT    NOT NULL,
			contact_name  TEXT    NOT NULL,
			contact_phone TEXT    NOT NULL,
			relationship  TEXT    NOT NULL DEFAULT '',
			is_primary    BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_ice_contacts_user
			ON ice_contacts(user_id, is_primary DESC, id ASC);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying postgres schema: %w", err)
	}
	return nil
}
