package db

import (
	"database/sql"
	"strings"
	"unicode"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// SearchLimit caps the results contributed by each search strategy.
const SearchLimit = 50

// SearchBooks runs the three-tier search and merges the results into one
// ranked, de-duplicated list. First occurrence wins: later strategies only
// add books not already present, so full-text relevance outranks substring
// noise and identifier fragments come last.
//
//  1. Tokenized prefix match against the text index, ranked by bm25 with
//     title weighted over authors over description.
//  2. Raw substring over lower-cased title/authors/description, for
//     partial-word queries the term-boundary index cannot serve.
//  3. Identifier containment with hyphens and spaces normalized away.
//
// A blank query returns an empty result without touching the store.
func SearchBooks(database *sql.DB, query string) ([]catalog.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.Book{}, nil
	}

	results := make([]catalog.Book, 0)
	seen := make(map[string]bool)

	merge := func(books []catalog.Book) {
		for _, b := range books {
			if seen[b.ISBN] {
				continue
			}
			seen[b.ISBN] = true
			results = append(results, b)
		}
	}

	ranked, err := searchFullText(database, query)
	if err != nil {
		return nil, err
	}
	merge(ranked)

	substring, err := searchSubstring(database, query)
	if err != nil {
		return nil, err
	}
	merge(substring)

	byIdentifier, err := searchIdentifier(database, query)
	if err != nil {
		return nil, err
	}
	merge(byIdentifier)

	return results, nil
}

// searchFullText queries the FTS index with every query token as a prefix
// term. Tokens are reduced to lower-case alphanumerics before quoting, so
// the match expression cannot trip FTS5 syntax handling.
func searchFullText(database *sql.DB, query string) ([]catalog.Book, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = `"` + tok + `"*`
	}
	match := strings.Join(terms, " ")

	sqlQuery := `SELECT ` + bookColumns + `
		FROM books_fts
		JOIN books b ON b.isbn = books_fts.isbn
		LEFT JOIN shelves s ON b.home_shelf_id = s.id
		WHERE books_fts MATCH ?
		ORDER BY bm25(books_fts, 0, 5.0, 2.0, 1.0)
		LIMIT ?`

	return queryBooks(database, sqlQuery, match, SearchLimit)
}

// searchSubstring matches the raw lower-cased query as a substring of
// title, authors text, or description.
func searchSubstring(database *sql.DB, query string) ([]catalog.Book, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	sqlQuery := `SELECT ` + bookColumns + bookFrom + `
		WHERE lower(b.title) LIKE ? ESCAPE '\'
		   OR lower(b.authors) LIKE ? ESCAPE '\'
		   OR lower(COALESCE(b.description, '')) LIKE ? ESCAPE '\'
		LIMIT ?`

	return queryBooks(database, sqlQuery, pattern, pattern, pattern, SearchLimit)
}

// searchIdentifier matches books whose identifier contains the query once
// both sides are stripped of separators, so "978000000000" finds
// "978-0-00-000000-2".
func searchIdentifier(database *sql.DB, query string) ([]catalog.Book, error) {
	normalized := stripNonAlphanumeric(query)
	if normalized == "" {
		return nil, nil
	}
	pattern := "%" + strings.ToLower(normalized) + "%"

	sqlQuery := `SELECT ` + bookColumns + bookFrom + `
		WHERE lower(replace(replace(b.isbn, '-', ''), ' ', '')) LIKE ?
		LIMIT ?`

	return queryBooks(database, sqlQuery, pattern, SearchLimit)
}

// queryBooks runs a book select and scans all rows, preserving order.
func queryBooks(database *sql.DB, query string, args ...any) ([]catalog.Book, error) {
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

// tokenize splits a query into lower-cased alphanumeric tokens.
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isAlphanumeric(r)
	})
}

// stripNonAlphanumeric drops every rune that is not a letter or digit.
func stripNonAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphanumeric(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
