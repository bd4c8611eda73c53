// Package legacy reads the flat-file JSON representation that predates the
// SQLite store and migrates it through the repository's public write path,
// so every integrity check re-runs on import.
package legacy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pcrawfurd/hoard/internal/catalog"
)

// File names of the legacy flat collections inside the data directory.
const (
	ShelvesFile = "bookshelves.json"
	BooksFile   = "books.json"
)

// shelfRecord mirrors one entry of bookshelves.json.
type shelfRecord struct {
	Location    string  `json:"location"`
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Description *string `json:"description"`
}

// bookInfoRecord mirrors the nested book_info object of books.json.
type bookInfoRecord struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     *string  `json:"publisher"`
	PublishedDate *string  `json:"published_date"`
	Description   *string  `json:"description"`
	Genres        []string `json:"genres"`
	PageCount     *int     `json:"page_count"`
	CoverURL      *string  `json:"cover_url"`
	Language      *string  `json:"language"`
}

// homeLocationRecord mirrors the embedded home_location object.
type homeLocationRecord struct {
	Location      string `json:"location"`
	BookshelfName string `json:"bookshelf_name"`
	Column        int    `json:"column"`
	Row           int    `json:"row"`
}

// bookRecord mirrors one entry of books.json.
type bookRecord struct {
	BookInfo       bookInfoRecord      `json:"book_info"`
	HomeLocation   *homeLocationRecord `json:"home_location"`
	CheckedOutTo   *string             `json:"checked_out_to"`
	CheckedOutDate *string             `json:"checked_out_date"`
	Notes          *string             `json:"notes"`
}

func (r *bookRecord) toBook() *catalog.Book {
	book := &catalog.Book{
		ISBN:           r.BookInfo.ISBN,
		Title:          r.BookInfo.Title,
		Authors:        r.BookInfo.Authors,
		Publisher:      r.BookInfo.Publisher,
		PublishedDate:  r.BookInfo.PublishedDate,
		Description:    r.BookInfo.Description,
		Genres:         r.BookInfo.Genres,
		PageCount:      r.BookInfo.PageCount,
		CoverURL:       r.BookInfo.CoverURL,
		Language:       r.BookInfo.Language,
		CheckedOutTo:   r.CheckedOutTo,
		CheckedOutDate: normalizeOptionalTime(r.CheckedOutDate),
		Notes:          r.Notes,
	}
	if r.HomeLocation != nil {
		book.HomeSlot = &catalog.Slot{
			Location:  r.HomeLocation.Location,
			ShelfName: r.HomeLocation.BookshelfName,
			Column:    r.HomeLocation.Column,
			Row:       r.HomeLocation.Row,
		}
	}
	return book
}

// normalizeOptionalTime converts a legacy timestamp to UTC RFC 3339. Legacy
// files recorded local-offset timestamps; a blank value drops to nil.
func normalizeOptionalTime(ts *string) *string {
	if ts == nil {
		return nil
	}
	normalized := catalog.NormalizeTimestamp(*ts)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// ReadShelves loads bookshelves.json from dataDir. The collection is keyed
// by "location#name"; only the values matter here. A missing file is an
// empty catalog, not an error.
func ReadShelves(dataDir string) ([]catalog.Shelf, error) {
	path := filepath.Join(dataDir, ShelvesFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records map[string]shelfRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	shelves := make([]catalog.Shelf, 0, len(records))
	for _, r := range records {
		shelves = append(shelves, catalog.Shelf{
			Location:    r.Location,
			Name:        r.Name,
			Rows:        r.Rows,
			Columns:     r.Columns,
			Description: r.Description,
		})
	}

	return shelves, nil
}

// ReadBooks loads books.json from dataDir, keyed by identifier.
// A missing file is an empty catalog, not an error.
func ReadBooks(dataDir string) (map[string]catalog.Book, error) {
	path := filepath.Join(dataDir, BooksFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]catalog.Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records map[string]bookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	books := make(map[string]catalog.Book, len(records))
	for isbn, r := range records {
		book := r.toBook()
		if book.ISBN == "" {
			book.ISBN = isbn
		}
		books[book.ISBN] = *book
	}

	return books, nil
}
