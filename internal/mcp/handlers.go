package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
	"github.com/pcrawfurd/hoard/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db *sql.DB
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB) *Handlers {
	return &Handlers{db: db}
}

// Request types for each tool

// SearchRequest represents the arguments for book_search.
type SearchRequest struct {
	Query string `json:"query"`
}

// GetRequest represents the arguments for book_get and book_delete.
type GetRequest struct {
	ISBN string `json:"isbn"`
}

// StoreRequest represents the arguments for book_store.
type StoreRequest struct {
	ISBN          string   `json:"isbn,omitempty"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	PublishedDate *string  `json:"published_date,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	CoverURL      *string  `json:"cover_url,omitempty"`
	Language      *string  `json:"language,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	SlotRequest
}

// CheckoutRequest represents the arguments for book_checkout.
type CheckoutRequest struct {
	ISBN     string `json:"isbn"`
	Borrower string `json:"borrower"`
}

// CheckinRequest represents the arguments for book_checkin.
type CheckinRequest struct {
	ISBN string `json:"isbn"`
	SlotRequest
}

// SlotRequest carries an optional home slot reference. All four fields must
// be present for the slot to count.
type SlotRequest struct {
	Location *string `json:"location,omitempty"`
	Shelf    *string `json:"shelf,omitempty"`
	Column   *int    `json:"column,omitempty"`
	Row      *int    `json:"row,omitempty"`
}

// toSlot converts the request fields to a catalog slot, or nil when absent.
func (r *SlotRequest) toSlot() (*catalog.Slot, error) {
	if r.Location == nil && r.Shelf == nil && r.Column == nil && r.Row == nil {
		return nil, nil
	}
	if r.Location == nil || r.Shelf == nil || r.Column == nil || r.Row == nil {
		return nil, errors.NewInvalidRequest("a home slot needs location, shelf, column, and row together")
	}
	return &catalog.Slot{
		Location:  *r.Location,
		ShelfName: *r.Shelf,
		Column:    *r.Column,
		Row:       *r.Row,
	}, nil
}

// ShelfAddRequest represents the arguments for shelf_add.
type ShelfAddRequest struct {
	Location    string  `json:"location"`
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Description *string `json:"description,omitempty"`
}

// ShelfRequest represents the arguments for shelf_remove and shelf_contents.
type ShelfRequest struct {
	Location string `json:"location"`
	Name     string `json:"name"`
	Column   *int   `json:"column,omitempty"`
	Row      *int   `json:"row,omitempty"`
}

// Handler implementations

// HandleSearch handles the book_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(h.db, input.Query)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the book_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	book, err := ops.FetchBook(h.db, input.ISBN)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(book)
}

// HandleStore handles the book_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	slot, err := input.toSlot()
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.StoreBook(h.db, ops.StoreBookInput{Book: catalog.Book{
		ISBN:          input.ISBN,
		Title:         input.Title,
		Authors:       input.Authors,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		Description:   input.Description,
		Genres:        input.Genres,
		PageCount:     input.PageCount,
		CoverURL:      input.CoverURL,
		Language:      input.Language,
		Notes:         input.Notes,
		HomeSlot:      slot,
	}})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the book_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteBook(h.db, input.ISBN); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": input.ISBN})
}

// HandleCheckout handles the book_checkout tool call.
func (h *Handlers) HandleCheckout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckoutRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	book, err := ops.Checkout(h.db, ops.CheckoutInput{
		ISBN:     input.ISBN,
		Borrower: input.Borrower,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(book)
}

// HandleCheckin handles the book_checkin tool call.
func (h *Handlers) HandleCheckin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckinRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	slot, err := input.toSlot()
	if err != nil {
		return errorResult(err), nil
	}

	book, err := ops.Checkin(h.db, ops.CheckinInput{
		ISBN: input.ISBN,
		Slot: slot,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(book)
}

// HandleShelfAdd handles the shelf_add tool call.
func (h *Handlers) HandleShelfAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShelfAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddShelf(h.db, ops.AddShelfInput{
		Location:    input.Location,
		Name:        input.Name,
		Rows:        input.Rows,
		Columns:     input.Columns,
		Description: input.Description,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleShelfList handles the shelf_list tool call.
func (h *Handlers) HandleShelfList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListShelves(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleShelfRemove handles the shelf_remove tool call.
func (h *Handlers) HandleShelfRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShelfRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.RemoveShelf(h.db, input.Location, input.Name); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"removed": input.Location + "/" + input.Name})
}

// HandleShelfContents handles the shelf_contents tool call.
func (h *Handlers) HandleShelfContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShelfRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ShelfContents(h.db, ops.ShelfContentsInput{
		Location: input.Location,
		Name:     input.Name,
		Column:   input.Column,
		Row:      input.Row,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Storage-engine details are not exposed to avoid leaking paths or SQL.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if hErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    hErr.Code,
			"message": hErr.Message,
			"status":  hErr.Status,
		}
		if hErr.Code != errors.ErrStorage && hErr.Details != nil {
			errorObj["details"] = hErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "STORAGE",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
