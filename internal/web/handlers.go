package web

import (
	"database/sql"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
	"github.com/pcrawfurd/hoard/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	renderer *Renderer
}

// HandleBooks handles GET /books. Without a query it lists the full
// catalog; with ?q= it runs a search.
func (h *Handlers) HandleBooks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := BooksPageData{
		PageData: PageData{
			Title:   "Books",
			Version: h.renderer.version,
			Nav:     "books",
		},
		Query:    query,
		HasQuery: query != "",
	}

	if query != "" {
		result, err := ops.Search(h.db, query)
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Books = result.Books
		data.Count = result.Count
		h.renderer.renderPage(w, r, "books", data)
		return
	}

	result, err := ops.ListBooks(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	books := make([]catalog.Book, 0, len(result.Books))
	for _, b := range result.Books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ISBN < books[j].ISBN
	})

	data.Books = books
	data.Count = len(books)
	h.renderer.renderPage(w, r, "books", data)
}

// HandleBookDetail handles GET /books/{isbn}.
func (h *Handlers) HandleBookDetail(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("book identifier is required"))
		return
	}

	book, err := ops.FetchBook(h.db, isbn)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := DetailPageData{
		PageData: PageData{
			Title:   book.Title,
			Version: h.renderer.version,
			Nav:     "books",
		},
		Book: book,
	}
	if book.Description != nil {
		data.RenderedDescription = renderMarkdown(*book.Description)
	}
	if book.Notes != nil {
		data.RenderedNotes = renderMarkdown(*book.Notes)
	}

	h.renderer.renderPage(w, r, "detail", data)
}

// HandleShelves handles GET /shelves.
func (h *Handlers) HandleShelves(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListShelves(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "shelves", ShelvesPageData{
		PageData: PageData{
			Title:   "Shelves",
			Version: h.renderer.version,
			Nav:     "shelves",
		},
		Shelves: result.Shelves,
		Count:   result.Count,
	})
}

// HandleShelfDetail handles GET /shelves/{location}/{name}, listing the
// books homed on one shelf. ?column= and ?row= narrow to a single slot.
func (h *Handlers) HandleShelfDetail(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	name := r.PathValue("name")
	if location == "" || name == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("shelf location and name are required"))
		return
	}

	result, err := ops.ShelfContents(h.db, ops.ShelfContentsInput{
		Location: location,
		Name:     name,
		Column:   parseOptionalInt(r, "column"),
		Row:      parseOptionalInt(r, "row"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "shelf", ShelfPageData{
		PageData: PageData{
			Title:   result.Shelf.String(),
			Version: h.renderer.version,
			Nav:     "shelves",
		},
		Shelf: &result.Shelf,
		Books: result.Books,
	})
}

// parseOptionalInt parses an integer query parameter, nil when absent or
// malformed.
func parseOptionalInt(r *http.Request, name string) *int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
