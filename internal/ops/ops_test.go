package ops

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pcrawfurd/hoard/internal/db"
)

// openTest opens a fresh database in a temp directory.
func openTest(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "hoard.db"))
	if err != nil {
		t.Fatalf("db.Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
