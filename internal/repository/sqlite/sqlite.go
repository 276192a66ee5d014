// Package sqlite implements the repository interfaces on an embedded SQLite
// database (modernc.org/sqlite, pure Go, no CGo).
//
// The schema enforces the invariants the business layer relies on:
//   - events.user_id is NOT NULL with ON DELETE CASCADE from users
//   - event_registrations is UNIQUE(event_id, user_id) with cascades from
//     both events and users
//   - a unique index over (user_id, lower(title), date) backs the
//     duplicate-event conflict rule
//
// Uniqueness violations are the authoritative race detectors; this package
// classifies them via the driver's error codes and translates them into
// apperror kinds so no SQL detail leaks upward.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the sql.DB pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and prepares the schema.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite serializes writes; a single pooled connection avoids
	// SQLITE_BUSY under concurrent requests and keeps :memory: databases
	// from silently splitting into one DB per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows reads to proceed during a write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Off by default in SQLite; the cascade rules depend on it.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			address     TEXT NOT NULL DEFAULT '',
			date        DATETIME NOT NULL,
			image_url   TEXT NOT NULL DEFAULT '',
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_events_owner_title_date
			ON events(user_id, lower(title), date);
		CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
	`)
	if err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS event_registrations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id   INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id    INTEGER NOT NULL REFERENCES users(id)  ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			UNIQUE(event_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_registrations_user ON event_registrations(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating event_registrations table: %w", err)
	}

	return nil
}

// isConstraint reports whether err is a SQLite constraint violation with the
// given extended result code (e.g. sqlite3.SQLITE_CONSTRAINT_UNIQUE).
func isConstraint(err error, code int) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == code
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE)
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}
