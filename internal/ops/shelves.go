package ops

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/db"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// AddShelfInput contains parameters for the AddShelf operation.
type AddShelfInput struct {
	Location    string
	Name        string
	Rows        int
	Columns     int
	Description *string
}

// AddShelfOutput contains the result of the AddShelf operation.
type AddShelfOutput struct {
	Shelf catalog.Shelf `json:"shelf"`
}

// AddShelf creates a new shelf.
func AddShelf(database *sql.DB, input AddShelfInput) (*AddShelfOutput, error) {
	location := strings.TrimSpace(input.Location)
	name := strings.TrimSpace(input.Name)
	if location == "" || name == "" {
		return nil, errors.NewInvalidRequest("location and name are required")
	}
	if input.Rows <= 0 || input.Columns <= 0 {
		return nil, errors.NewInvalidRequest("rows and columns must be positive")
	}

	shelf := &catalog.Shelf{
		Location:    location,
		Name:        name,
		Rows:        input.Rows,
		Columns:     input.Columns,
		Description: cleanOptionalString(input.Description),
	}

	if err := db.AddShelf(database, shelf); err != nil {
		return nil, err
	}

	return &AddShelfOutput{Shelf: *shelf}, nil
}

// ListShelvesOutput contains the result of the ListShelves operation.
type ListShelvesOutput struct {
	Shelves []catalog.Shelf `json:"shelves"`
	Count   int             `json:"count"`
}

// ListShelves returns all shelves ordered by (location, name).
func ListShelves(database *sql.DB) (*ListShelvesOutput, error) {
	shelves, err := db.ListShelves(database)
	if err != nil {
		return nil, err
	}
	return &ListShelvesOutput{Shelves: shelves, Count: len(shelves)}, nil
}

// GetShelf fetches one shelf, failing with NOT_FOUND when absent.
func GetShelf(database *sql.DB, location, name string) (*catalog.Shelf, error) {
	shelf, err := db.GetShelf(database, location, name)
	if err != nil {
		return nil, err
	}
	if shelf == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("shelf %s/%s", location, name))
	}
	return shelf, nil
}

// RemoveShelf deletes a shelf, failing with NOT_FOUND when absent and with
// CONFLICT when books are still assigned to it.
func RemoveShelf(database *sql.DB, location, name string) error {
	removed, err := db.RemoveShelf(database, location, name)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NewNotFound(fmt.Sprintf("shelf %s/%s", location, name))
	}
	return nil
}

// ShelfContentsInput contains parameters for the ShelfContents operation.
// Column and Row optionally narrow the listing to one slot.
type ShelfContentsInput struct {
	Location string
	Name     string
	Column   *int
	Row      *int
}

// ShelfContentsOutput contains the result of the ShelfContents operation.
type ShelfContentsOutput struct {
	Shelf catalog.Shelf  `json:"shelf"`
	Books []catalog.Book `json:"books"`
	Count int            `json:"count"`
}

// ShelfContents lists the books homed on a shelf, excluding checked-out
// books. The shelf must exist; slot coordinates, when given, must lie
// within its grid.
func ShelfContents(database *sql.DB, input ShelfContentsInput) (*ShelfContentsOutput, error) {
	shelf, err := GetShelf(database, input.Location, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Column != nil && (*input.Column < 0 || *input.Column >= shelf.Columns) {
		return nil, errors.NewInvalidLocation(fmt.Sprintf("column must be between 0 and %d", shelf.Columns-1))
	}
	if input.Row != nil && (*input.Row < 0 || *input.Row >= shelf.Rows) {
		return nil, errors.NewInvalidLocation(fmt.Sprintf("row must be between 0 and %d", shelf.Rows-1))
	}

	books, err := db.BooksAt(database, input.Location, input.Name, input.Column, input.Row)
	if err != nil {
		return nil, err
	}

	return &ShelfContentsOutput{Shelf: *shelf, Books: books, Count: len(books)}, nil
}
