package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// bookColumns is the select list shared by every book read, joining the
// home shelf so slot references come back resolved.
const bookColumns = `
	b.isbn, b.title, b.authors, b.publisher, b.published_date, b.description,
	b.genres, b.page_count, b.cover_url, b.language,
	b.home_column, b.home_row, b.checked_out_to, b.checked_out_date,
	b.notes, b.created_at, b.updated_at,
	s.location, s.name
`

const bookFrom = `FROM books b LEFT JOIN shelves s ON b.home_shelf_id = s.id`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook scans one joined book row into a catalog.Book.
func scanBook(row rowScanner) (*catalog.Book, error) {
	var (
		b              catalog.Book
		authors        string
		publisher      sql.NullString
		publishedDate  sql.NullString
		description    sql.NullString
		genres         sql.NullString
		pageCount      sql.NullInt64
		coverURL       sql.NullString
		language       sql.NullString
		homeColumn     sql.NullInt64
		homeRow        sql.NullInt64
		checkedOutTo   sql.NullString
		checkedOutDate sql.NullString
		notes          sql.NullString
		shelfLocation  sql.NullString
		shelfName      sql.NullString
	)

	err := row.Scan(
		&b.ISBN, &b.Title, &authors, &publisher, &publishedDate, &description,
		&genres, &pageCount, &coverURL, &language,
		&homeColumn, &homeRow, &checkedOutTo, &checkedOutDate,
		&notes, &b.CreatedAt, &b.UpdatedAt,
		&shelfLocation, &shelfName,
	)
	if err != nil {
		return nil, err
	}

	b.Authors = catalog.SplitAuthors(authors)
	if len(b.Authors) == 0 {
		b.Authors = []string{catalog.UnknownAuthor}
	}
	if genres.Valid {
		b.Genres = catalog.SplitList(genres.String)
	}

	b.Publisher = fromNullString(publisher)
	b.PublishedDate = fromNullString(publishedDate)
	b.Description = fromNullString(description)
	b.PageCount = fromNullInt(pageCount)
	b.CoverURL = fromNullString(coverURL)
	b.Language = fromNullString(language)
	b.CheckedOutTo = fromNullString(checkedOutTo)
	b.CheckedOutDate = fromNullString(checkedOutDate)
	b.Notes = fromNullString(notes)

	// The slot is only reported when the shelf reference resolved through
	// the join; a dangling reference reads back as no slot.
	if shelfLocation.Valid && shelfName.Valid && homeColumn.Valid && homeRow.Valid {
		b.HomeSlot = &catalog.Slot{
			Location:  shelfLocation.String,
			ShelfName: shelfName.String,
			Column:    int(homeColumn.Int64),
			Row:       int(homeRow.Int64),
		}
	}

	return &b, nil
}

// UpsertBook inserts or fully replaces the book keyed by its ISBN, inside a
// single transaction. It validates the home slot against the shelf grid and
// the checked-out pair before any write, re-encodes list fields, preserves
// created_at across updates, refreshes updated_at, and rewrites the search
// index rows for the book. Returns whether a row existed before the write.
func UpsertBook(database *sql.DB, book *catalog.Book) (bool, error) {
	if strings.TrimSpace(book.ISBN) == "" {
		return false, errors.NewInvalidRequest("isbn is required")
	}
	if strings.TrimSpace(book.Title) == "" {
		return false, errors.NewInvalidRequest("title is required")
	}
	// Checked-out state is atomic: both fields set or both absent.
	if (book.CheckedOutTo == nil) != (book.CheckedOutDate == nil) {
		return false, errors.NewInvalidRequest("checked_out_to and checked_out_date must be set together")
	}

	tx, err := database.Begin()
	if err != nil {
		return false, errors.NewStorage(err)
	}
	defer tx.Rollback() //nolint:errcheck

	var homeShelfID sql.NullInt64
	var homeColumn, homeRow sql.NullInt64
	if slot := book.HomeSlot; slot != nil {
		shelf, err := lookupShelfRow(tx, slot.Location, slot.ShelfName)
		if err == sql.ErrNoRows {
			return false, errors.NewInvalidLocation(
				fmt.Sprintf("shelf %q in %q does not exist", slot.ShelfName, slot.Location))
		}
		if err != nil {
			return false, errors.NewStorage(err)
		}
		if slot.Column < 0 || slot.Column >= shelf.columns {
			return false, errors.NewInvalidLocation(
				fmt.Sprintf("column must be between 0 and %d", shelf.columns-1))
		}
		if slot.Row < 0 || slot.Row >= shelf.rows {
			return false, errors.NewInvalidLocation(
				fmt.Sprintf("row must be between 0 and %d", shelf.rows-1))
		}
		homeShelfID = sql.NullInt64{Int64: shelf.id, Valid: true}
		homeColumn = sql.NullInt64{Int64: int64(slot.Column), Valid: true}
		homeRow = sql.NullInt64{Int64: int64(slot.Row), Valid: true}
	}

	var existed bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)`, book.ISBN).Scan(&existed)
	if err != nil {
		return false, errors.NewStorage(err)
	}

	authorsText := catalog.JoinAuthors(book.Authors)

	var genresText sql.NullString
	if encoded := catalog.JoinList(book.Genres); encoded != "" {
		genresText = sql.NullString{String: encoded, Valid: true}
	}

	now := catalog.NowISO()

	query := `
		INSERT INTO books (
			isbn, title, authors, publisher, published_date, description,
			genres, page_count, cover_url, language,
			home_shelf_id, home_column, home_row,
			checked_out_to, checked_out_date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(isbn) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			publisher = excluded.publisher,
			published_date = excluded.published_date,
			description = excluded.description,
			genres = excluded.genres,
			page_count = excluded.page_count,
			cover_url = excluded.cover_url,
			language = excluded.language,
			home_shelf_id = excluded.home_shelf_id,
			home_column = excluded.home_column,
			home_row = excluded.home_row,
			checked_out_to = excluded.checked_out_to,
			checked_out_date = excluded.checked_out_date,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err = tx.Exec(query,
		book.ISBN, book.Title, authorsText,
		toNullString(book.Publisher), toNullString(book.PublishedDate), toNullString(book.Description),
		genresText, toNullInt(book.PageCount), toNullString(book.CoverURL), toNullString(book.Language),
		homeShelfID, homeColumn, homeRow,
		toNullString(book.CheckedOutTo), toNullString(book.CheckedOutDate), toNullString(book.Notes),
		now, now,
	)
	if err != nil {
		return false, errors.NewStorage(err)
	}

	if err := syncSearchIndex(tx, book.ISBN, book.Title, authorsText, book.Description); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, errors.NewStorage(err)
	}

	return existed, nil
}

// GetBook looks up one book by identifier, with its home slot resolved.
// Absence is a normal outcome and returns (nil, nil).
func GetBook(database *sql.DB, isbn string) (*catalog.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + ` WHERE b.isbn = ?`

	book, err := scanBook(database.QueryRow(query, isbn))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	return book, nil
}

// ListBooks returns every book keyed by identifier.
func ListBooks(database *sql.DB) (map[string]catalog.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom

	rows, err := database.Query(query)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	books := make(map[string]catalog.Book)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, errors.NewStorage(err)
		}
		books[book.ISBN] = *book
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}

	return books, nil
}

// RemoveBook hard-deletes a book and its search index rows.
// Returns false when no such book exists.
func RemoveBook(database *sql.DB, isbn string) (bool, error) {
	tx, err := database.Begin()
	if err != nil {
		return false, errors.NewStorage(err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.Exec(`DELETE FROM books WHERE isbn = ?`, isbn)
	if err != nil {
		return false, errors.NewStorage(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewStorage(err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM books_fts WHERE isbn = ?`, isbn); err != nil {
		return false, errors.NewStorage(err)
	}

	if err := tx.Commit(); err != nil {
		return false, errors.NewStorage(err)
	}

	return true, nil
}

// BooksAt returns the books homed on a shelf, excluding checked-out books,
// optionally narrowed to one exact slot. Order is unspecified.
func BooksAt(database *sql.DB, location, shelfName string, column, row *int) ([]catalog.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom + `
		WHERE s.location = ? AND s.name = ? AND b.checked_out_to IS NULL`
	args := []any{location, shelfName}

	if column != nil {
		query += ` AND b.home_column = ?`
		args = append(args, *column)
	}
	if row != nil {
		query += ` AND b.home_row = ?`
		args = append(args, *row)
	}

	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	books := make([]catalog.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, errors.NewStorage(err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}

	return books, nil
}

// syncSearchIndex rewrites the books_fts rows for one book inside an open
// write transaction. Delete-then-insert on every write keeps the index free
// of stale terms after updates.
func syncSearchIndex(tx *sql.Tx, isbn, title, authorsText string, description *string) error {
	if _, err := tx.Exec(`DELETE FROM books_fts WHERE isbn = ?`, isbn); err != nil {
		return errors.NewStorage(err)
	}

	desc := ""
	if description != nil {
		desc = *description
	}

	_, err := tx.Exec(
		`INSERT INTO books_fts (isbn, title, authors, description) VALUES (?, ?, ?, ?)`,
		isbn, title, authorsText, desc,
	)
	if err != nil {
		return errors.NewStorage(err)
	}

	return nil
}
