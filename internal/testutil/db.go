// Package testutil opens throwaway SQLite databases carrying the same tables
// as the MySQL schema, so repositories and services can be tested without a
// MySQL server.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lalarentals/users-micro/internal/database"
)

// sqliteSchema mirrors database/schema.sql in SQLite syntax.  Columns added
// there must be added here too; TestSchemaMatchesMySQL fails until they are.
const sqliteSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name     TEXT     NOT NULL,
    email         TEXT     NOT NULL UNIQUE,
    password_hash TEXT     NOT NULL,
    phone         TEXT     NULL UNIQUE,
    location      TEXT     NOT NULL DEFAULT '',
    id_number     TEXT     NULL UNIQUE,
    nationality   TEXT     NOT NULL DEFAULT '',
    profile       TEXT     NOT NULL DEFAULT '',
    role          TEXT     NOT NULL DEFAULT 'renter' CHECK (role IN ('owner','renter')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE houses (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id    INTEGER  NOT NULL REFERENCES users (id),
    title       TEXT     NOT NULL,
    description TEXT     NULL,
    address     TEXT     NOT NULL DEFAULT '',
    location    TEXT     NOT NULL DEFAULT '',
    price       REAL     NOT NULL DEFAULT 0,
    bedrooms    INTEGER  NOT NULL DEFAULT 0,
    bathrooms   INTEGER  NOT NULL DEFAULT 0,
    size        REAL     NULL,
    furnished   INTEGER  NOT NULL DEFAULT 0,
    available   INTEGER  NOT NULL DEFAULT 1,
    image_url   TEXT     NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE bookings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    house_id   INTEGER  NOT NULL REFERENCES houses (id),
    user_id    INTEGER  NOT NULL REFERENCES users (id),
    status     TEXT     NOT NULL DEFAULT 'pending',
    checkin    DATETIME NOT NULL,
    checkout   DATETIME NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// OpenDB returns a fresh database file under t.TempDir with the schema
// applied.  It is closed automatically when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rentals.db")
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, stmt := range database.Statements(sqliteSchema) {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	return db
}
