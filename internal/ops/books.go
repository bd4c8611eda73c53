package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/db"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// StoreBookInput contains parameters for the StoreBook operation.
type StoreBookInput struct {
	Book catalog.Book
}

// StoreBookOutput contains the result of the StoreBook operation.
type StoreBookOutput struct {
	ISBN    string `json:"isbn"`
	Updated bool   `json:"updated"` // false when the book was newly added
}

// StoreBook upserts a book. Books without an ISBN get a generated surrogate
// key; everything else is validated and written by the repository.
func StoreBook(database *sql.DB, input StoreBookInput) (*StoreBookOutput, error) {
	book := input.Book
	if book.ISBN == "" {
		book.ISBN = generateSurrogateKey()
	}

	existed, err := db.UpsertBook(database, &book)
	if err != nil {
		return nil, err
	}

	return &StoreBookOutput{ISBN: book.ISBN, Updated: existed}, nil
}

// FetchBook fetches one book, failing with NOT_FOUND when absent.
func FetchBook(database *sql.DB, isbn string) (*catalog.Book, error) {
	book, err := db.GetBook(database, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.NewNotFound(isbn)
	}
	return book, nil
}

// ListBooksOutput contains the result of the ListBooks operation.
type ListBooksOutput struct {
	Books map[string]catalog.Book `json:"books"`
	Count int                     `json:"count"`
}

// ListBooks returns every book keyed by identifier.
func ListBooks(database *sql.DB) (*ListBooksOutput, error) {
	books, err := db.ListBooks(database)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Books: books, Count: len(books)}, nil
}

// DeleteBook hard-deletes a book, failing with NOT_FOUND when absent.
func DeleteBook(database *sql.DB, isbn string) error {
	removed, err := db.RemoveBook(database, isbn)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NewNotFound(isbn)
	}
	return nil
}

// generateSurrogateKey returns a ULID-based identifier for books cataloged
// without an ISBN. The prefix keeps surrogates visually distinct from real
// ISBNs in listings.
func generateSurrogateKey() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return "HOARD-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
