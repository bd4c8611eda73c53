// Package catalog holds the domain types for the hoard book catalog:
// shelves (fixed-size grids of slots), books, and the text encoding used
// to persist multi-valued fields.
package catalog

import "fmt"

// UnknownAuthor is the placeholder stored when a book has no author names.
const UnknownAuthor = "Unknown Author"

// Shelf is a named, located grid of Rows x Columns addressable slots.
// (Location, Name) is unique across the catalog.
type Shelf struct {
	Location    string  `json:"location"`
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Description *string `json:"description,omitempty"`
}

// String returns a human-readable shelf description.
func (s Shelf) String() string {
	size := fmt.Sprintf("%dx%d", s.Columns, s.Rows)
	if s.Description != nil && *s.Description != "" {
		return fmt.Sprintf("%s in %s (%s) - %s", s.Name, s.Location, size, *s.Description)
	}
	return fmt.Sprintf("%s in %s (%s)", s.Name, s.Location, size)
}

// Slot is one cell of a shelf grid. Columns run left to right and rows top
// to bottom, both 0-indexed.
type Slot struct {
	Location  string `json:"location"`
	ShelfName string `json:"shelf_name"`
	Column    int    `json:"column"`
	Row       int    `json:"row"`
}

// String returns a compact location string like "Library/Tall shelf/C2R0".
func (s Slot) String() string {
	return fmt.Sprintf("%s/%s/C%dR%d", s.Location, s.ShelfName, s.Column, s.Row)
}

// Book is a cataloged item keyed by ISBN (or a generated surrogate key).
type Book struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     *string  `json:"publisher,omitempty"`
	PublishedDate *string  `json:"published_date,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	CoverURL      *string  `json:"cover_url,omitempty"`
	Language      *string  `json:"language,omitempty"`
	Notes         *string  `json:"notes,omitempty"`

	// HomeSlot is where the book lives when it is not checked out.
	HomeSlot *Slot `json:"home_slot,omitempty"`

	// CheckedOutTo and CheckedOutDate are set and cleared together.
	CheckedOutTo   *string `json:"checked_out_to,omitempty"`
	CheckedOutDate *string `json:"checked_out_date,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// IsCheckedOut reports whether the book is currently checked out.
func (b Book) IsCheckedOut() bool {
	return b.CheckedOutTo != nil
}

// CurrentLocation describes where the book is right now.
func (b Book) CurrentLocation() string {
	switch {
	case b.IsCheckedOut():
		return fmt.Sprintf("Checked out to %s", *b.CheckedOutTo)
	case b.HomeSlot != nil:
		return b.HomeSlot.String()
	default:
		return "Location unknown"
	}
}

// AuthorsOrPlaceholder returns the author list, falling back to the
// Unknown Author placeholder when empty.
func (b Book) AuthorsOrPlaceholder() []string {
	if len(b.Authors) == 0 {
		return []string{UnknownAuthor}
	}
	return b.Authors
}
