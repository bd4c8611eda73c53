package legacy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pcrawfurd/hoard/internal/db"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// MigrateInput contains parameters for the Migrate operation.
type MigrateInput struct {
	// JSONDir holds bookshelves.json and books.json.
	JSONDir string
	// DBPath is the destination SQLite file.
	DBPath string
	// DryRun reports counts without writing anything.
	DryRun bool
	// Force overwrites an existing destination after backing it up.
	Force bool
	// BackupPath overrides the default backup location (DBPath + ".bak").
	BackupPath string
}

// MigrateOutput contains the result of the Migrate operation.
type MigrateOutput struct {
	DryRun     bool           `json:"dry_run"`
	Shelves    int            `json:"shelves"`
	Books      int            `json:"books"`
	BackupPath string         `json:"backup_path,omitempty"`
	Errors     []MigrateError `json:"errors,omitempty"`
}

// MigrateError describes one record that could not be migrated.
type MigrateError struct {
	Key     string `json:"key"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Migrate copies the legacy flat-file catalog into a fresh SQLite store.
// The full collections are read up front (there is no incremental mode),
// shelves are written first in (location, name) order, then books, all
// through the repository so every invariant is re-validated. Records that
// fail validation are reported, not silently dropped.
func Migrate(input MigrateInput) (*MigrateOutput, error) {
	if input.JSONDir == "" || input.DBPath == "" {
		return nil, errors.NewInvalidRequest("json dir and db path are required")
	}

	shelves, err := ReadShelves(input.JSONDir)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	books, err := ReadBooks(input.JSONDir)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	if input.DryRun {
		return &MigrateOutput{DryRun: true, Shelves: len(shelves), Books: len(books)}, nil
	}

	backupPath := ""
	if _, err := os.Stat(input.DBPath); err == nil {
		if !input.Force {
			return nil, errors.NewInvalidRequest(
				fmt.Sprintf("%s already exists; re-run with force to overwrite or dry-run to inspect", input.DBPath))
		}
		backupPath, err = backupExisting(input.DBPath, input.BackupPath)
		if err != nil {
			return nil, errors.NewStorage(err)
		}
	}

	database, err := db.Open(input.DBPath)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer database.Close()

	var migrateErrors []MigrateError

	sort.Slice(shelves, func(i, j int) bool {
		if shelves[i].Location != shelves[j].Location {
			return shelves[i].Location < shelves[j].Location
		}
		return shelves[i].Name < shelves[j].Name
	})

	shelfCount := 0
	for i := range shelves {
		if err := db.AddShelf(database, &shelves[i]); err != nil {
			migrateErrors = append(migrateErrors, MigrateError{
				Key:     shelves[i].Location + "/" + shelves[i].Name,
				Code:    "SHELF_FAILED",
				Message: err.Error(),
			})
			continue
		}
		shelfCount++
	}

	isbns := make([]string, 0, len(books))
	for isbn := range books {
		isbns = append(isbns, isbn)
	}
	sort.Strings(isbns)

	bookCount := 0
	for _, isbn := range isbns {
		book := books[isbn]
		if _, err := db.UpsertBook(database, &book); err != nil {
			migrateErrors = append(migrateErrors, MigrateError{
				Key:     isbn,
				Code:    "BOOK_FAILED",
				Message: err.Error(),
			})
			continue
		}
		bookCount++
	}

	return &MigrateOutput{
		Shelves:    shelfCount,
		Books:      bookCount,
		BackupPath: backupPath,
		Errors:     migrateErrors,
	}, nil
}

// backupExisting copies the current store to the backup path, then removes
// it (including WAL sidecars) so the migration starts from a clean file.
func backupExisting(dbPath, backupPath string) (string, error) {
	if backupPath == "" {
		backupPath = dbPath + ".bak"
	}

	if dir := filepath.Dir(backupPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	if err := copyFile(dbPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up existing database: %w", err)
	}

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
