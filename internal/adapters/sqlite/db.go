// Package sqlite provides the embedded storage backend and its schema.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id           TEXT    NOT NULL,
	location          TEXT    NOT NULL,
	trip_date         TEXT    NOT NULL,
	start_time        TEXT    NOT NULL,
	duration          INTEGER NOT NULL,
	participants      TEXT    NOT NULL DEFAULT '',
	emergency_contact TEXT    NOT NULL DEFAULT '',
	trip_name         TEXT,
	created_at        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trips_user_created
	ON trips(user_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS ice_contacts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id       TEXT    NOT NULL,
	contact_name  TEXT    NOT NULL,
	contact_phone TEXT    NOT NULL,
	relationship  TEXT    NOT NULL DEFAULT '',
	is_primary    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_ice_contacts_user
	ON ice_contacts(user_id, is_primary DESC, id ASC);
`

// Open opens (creating if needed) the database file and applies the
// schema. The parent directory is created when missing.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// The sqlite driver serializes writes; one connection avoids
	// SQLITE_BUSY churn under concurrent access.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return db, nil
}
