package ops

import (
	"database/sql"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/db"
)

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Query string         `json:"query"`
	Books []catalog.Book `json:"books"`
	Count int            `json:"count"`
}

// Search runs the three-tier catalog search. A blank query is a valid
// request that returns an empty result without a store lookup.
func Search(database *sql.DB, query string) (*SearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchOutput{Query: query, Books: []catalog.Book{}}, nil
	}

	books, err := db.SearchBooks(database, query)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Query: query, Books: books, Count: len(books)}, nil
}
