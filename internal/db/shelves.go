package db

import (
	"database/sql"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// shelfRow mirrors one row of the shelves table. Raw rows never cross the
// repository boundary; they are converted to catalog.Shelf at the edge.
type shelfRow struct {
	id          int64
	location    string
	name        string
	rows        int
	columns     int
	description sql.NullString
}

func (r *shelfRow) toShelf() *catalog.Shelf {
	return &catalog.Shelf{
		Location:    r.location,
		Name:        r.name,
		Rows:        r.rows,
		Columns:     r.columns,
		Description: fromNullString(r.description),
	}
}

// AddShelf inserts a new shelf. Shelves are only ever created explicitly;
// a (location, name) collision fails with DUPLICATE_KEY.
func AddShelf(database *sql.DB, shelf *catalog.Shelf) error {
	if strings.TrimSpace(shelf.Location) == "" || strings.TrimSpace(shelf.Name) == "" {
		return errors.NewInvalidRequest("shelf location and name are required")
	}
	if shelf.Rows <= 0 || shelf.Columns <= 0 {
		return errors.NewInvalidRequest("shelf rows and columns must be positive")
	}

	query := `
		INSERT INTO shelves (location, name, rows, columns, description)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := database.Exec(query,
		shelf.Location, shelf.Name, shelf.Rows, shelf.Columns,
		toNullString(shelf.Description),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewDuplicateShelf(shelf.Location, shelf.Name)
		}
		return errors.NewStorage(err)
	}

	return nil
}

// ListShelves returns all shelves ordered by (location, name).
func ListShelves(database *sql.DB) ([]catalog.Shelf, error) {
	query := `
		SELECT id, location, name, rows, columns, description
		FROM shelves
		ORDER BY location, name
	`

	rows, err := database.Query(query)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	shelves := make([]catalog.Shelf, 0)
	for rows.Next() {
		var r shelfRow
		if err := rows.Scan(&r.id, &r.location, &r.name, &r.rows, &r.columns, &r.description); err != nil {
			return nil, errors.NewStorage(err)
		}
		shelves = append(shelves, *r.toShelf())
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}

	return shelves, nil
}

// GetShelf looks up one shelf. Absence is a normal outcome and returns
// (nil, nil), not an error.
func GetShelf(database *sql.DB, location, name string) (*catalog.Shelf, error) {
	query := `
		SELECT id, location, name, rows, columns, description
		FROM shelves
		WHERE location = ? AND name = ?
	`

	var r shelfRow
	err := database.QueryRow(query, location, name).
		Scan(&r.id, &r.location, &r.name, &r.rows, &r.columns, &r.description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	return r.toShelf(), nil
}

// RemoveShelf deletes a shelf. Returns false when the shelf does not exist.
// Deletion is rejected with CONFLICT, naming the dependent book count, while
// any book still calls one of the shelf's slots home.
func RemoveShelf(database *sql.DB, location, name string) (bool, error) {
	tx, err := database.Begin()
	if err != nil {
		return false, errors.NewStorage(err)
	}
	defer tx.Rollback() //nolint:errcheck

	var shelfID int64
	err = tx.QueryRow(`SELECT id FROM shelves WHERE location = ? AND name = ?`, location, name).
		Scan(&shelfID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStorage(err)
	}

	var dependents int
	err = tx.QueryRow(`SELECT COUNT(*) FROM books WHERE home_shelf_id = ?`, shelfID).
		Scan(&dependents)
	if err != nil {
		return false, errors.NewStorage(err)
	}
	if dependents > 0 {
		return false, errors.NewShelfInUse(location, name, dependents)
	}

	if _, err := tx.Exec(`DELETE FROM shelves WHERE id = ?`, shelfID); err != nil {
		return false, errors.NewStorage(err)
	}

	if err := tx.Commit(); err != nil {
		return false, errors.NewStorage(err)
	}

	return true, nil
}

// lookupShelfRow fetches a shelf row inside an open transaction.
// Returns sql.ErrNoRows when the shelf does not exist.
func lookupShelfRow(tx *sql.Tx, location, name string) (*shelfRow, error) {
	var r shelfRow
	err := tx.QueryRow(
		`SELECT id, location, name, rows, columns, description FROM shelves WHERE location = ? AND name = ?`,
		location, name,
	).Scan(&r.id, &r.location, &r.name, &r.rows, &r.columns, &r.description)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// isUniqueConstraintError checks for a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// toNullInt converts a *int to sql.NullInt64.
func toNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// fromNullInt converts a sql.NullInt64 to *int.
func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
