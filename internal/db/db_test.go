package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// openTest opens a fresh database in a temp directory.
func openTest(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "hoard.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

func TestOpen_CreatesSchema(t *testing.T) {
	database := openTest(t)

	version, err := GetUserVersion(database)
	if err != nil {
		t.Fatalf("GetUserVersion failed: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}

	for _, table := range []string{"shelves", "books", "books_fts"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}
}

func TestOpen_WALMode(t *testing.T) {
	database := openTest(t)

	var mode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	database := openTest(t)

	var on int
	if err := database.QueryRow("PRAGMA foreign_keys;").Scan(&on); err != nil {
		t.Fatalf("foreign_keys query failed: %v", err)
	}
	if on != 1 {
		t.Errorf("foreign_keys = %d, want 1", on)
	}
}

func TestOpen_Reopen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoard.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	shelf := testShelf("Library", "Tall shelf")
	if err := AddShelf(database, shelf); err != nil {
		t.Fatalf("AddShelf failed: %v", err)
	}
	database.Close()

	// Second open must not disturb existing data.
	database, err = Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer database.Close()

	got, err := GetShelf(database, "Library", "Tall shelf")
	if err != nil {
		t.Fatalf("GetShelf failed: %v", err)
	}
	if got == nil {
		t.Fatal("shelf lost across reopen")
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "hoard.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	database.Close()
}
