// Package db is the persistence core of hoard: schema management, the book
// and shelf repository, and the multi-strategy search engine, all over a
// single embedded SQLite store.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pcrawfurd/hoard/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Open opens (creating if necessary) the SQLite database at path and brings
// it to the current schema. Parent directories are created as needed. Safe
// to call on every process start: all schema statements are idempotent.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Pragmas in the connection string apply to all pooled connections.
	// foreign_keys must be on for the home-shelf reference to be enforced.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(database); err != nil {
		database.Close()
		return nil, err
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(database *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(database *sql.DB) error {
	version, err := GetUserVersion(database)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: initial schema.
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS shelves (
		  id          INTEGER PRIMARY KEY,
		  location    TEXT NOT NULL,
		  name        TEXT NOT NULL,
		  rows        INTEGER NOT NULL,
		  columns     INTEGER NOT NULL,
		  description TEXT
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_shelves_location_name
		ON shelves(location, name);

		CREATE TABLE IF NOT EXISTS books (
		  isbn             TEXT PRIMARY KEY,
		  title            TEXT NOT NULL,
		  authors          TEXT NOT NULL,
		  publisher        TEXT,
		  published_date   TEXT,
		  description      TEXT,
		  genres           TEXT,
		  page_count       INTEGER,
		  cover_url        TEXT,
		  language         TEXT,
		  home_shelf_id    INTEGER REFERENCES shelves(id) ON DELETE SET NULL,
		  home_column      INTEGER,
		  home_row         INTEGER,
		  checked_out_to   TEXT,
		  checked_out_date TEXT,
		  notes            TEXT,
		  created_at       TEXT NOT NULL,
		  updated_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_books_home_shelf
		ON books(home_shelf_id)
		WHERE home_shelf_id IS NOT NULL;
		`
		if _, err := database.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}

		// The FTS shadow of title/authors/description. Kept in sync by the
		// repository inside each write transaction; see syncSearchIndex.
		fts := `
		CREATE VIRTUAL TABLE IF NOT EXISTS books_fts USING fts5(
		  isbn UNINDEXED,
		  title,
		  authors,
		  description
		);
		`
		if _, err := database.Exec(fts); err != nil {
			return fmt.Errorf("migration 1 (fts) failed: %w", err)
		}

		if err := SetUserVersion(database, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(database *sql.DB) error {
	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(database *sql.DB) (int, error) {
	var version int
	if err := database.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(database *sql.DB, version int) error {
	_, err := database.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
