package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pcrawfurd/hoard/internal/db"
)

// testSetup creates a temporary database for testing.
func testSetup(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "hoard.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// addShelfForTest creates the standard 4x3 test shelf through the handler.
func addShelfForTest(t *testing.T, h *Handlers) {
	t.Helper()

	result, err := h.HandleShelfAdd(context.Background(), makeRequest(map[string]any{
		"location": "Library",
		"name":     "Tall shelf",
		"rows":     3,
		"columns":  4,
	}))
	if err != nil {
		t.Fatalf("HandleShelfAdd returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("shelf setup failed: %v", extractErrorMessage(result))
	}
}

func TestHandleStore(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)
	ctx := context.Background()
	addShelfForTest(t, h)

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "store valid book",
			args: map[string]any{
				"isbn":    "978-0-00-000000-2",
				"title":   "The Fourth Consort",
				"authors": []string{"Edward Ashton"},
			},
			wantError: false,
		},
		{
			name: "store without title",
			args: map[string]any{
				"isbn": "x-1",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "store with valid slot",
			args: map[string]any{
				"isbn":     "x-2",
				"title":    "Shelved",
				"location": "Library",
				"shelf":    "Tall shelf",
				"column":   1,
				"row":      2,
			},
			wantError: false,
		},
		{
			name: "store with partial slot",
			args: map[string]any{
				"isbn":     "x-3",
				"title":    "Half Placed",
				"location": "Library",
				"shelf":    "Tall shelf",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "store with out-of-bounds slot",
			args: map[string]any{
				"isbn":     "x-4",
				"title":    "Misplaced",
				"location": "Library",
				"shelf":    "Tall shelf",
				"column":   9,
				"row":      0,
			},
			wantError: true,
			errorCode: "INVALID_LOCATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleStore(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleStore_NoISBN_GeneratesKey(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)

	result, err := h.HandleStore(context.Background(), makeRequest(map[string]any{
		"title": "Keyless",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("store failed: %v", extractErrorMessage(result))
	}

	var output map[string]any
	mustUnmarshalResult(t, result, &output)
	isbn, _ := output["isbn"].(string)
	if isbn == "" {
		t.Error("no isbn in store output")
	}
}

func TestHandleGet(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)
	ctx := context.Background()

	storeResult, err := h.HandleStore(ctx, makeRequest(map[string]any{
		"isbn":  "x-1",
		"title": "Fetch Me",
	}))
	if err != nil || storeResult.IsError {
		t.Fatalf("setup store failed: %v %v", err, extractErrorMessage(storeResult))
	}

	result, err := h.HandleGet(ctx, makeRequest(map[string]any{"isbn": "x-1"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("get failed: %v", extractErrorMessage(result))
	}

	var book map[string]any
	mustUnmarshalResult(t, result, &book)
	if book["title"] != "Fetch Me" {
		t.Errorf("title = %v", book["title"])
	}

	// Missing book → NOT_FOUND error result, not a transport error.
	result, err = h.HandleGet(ctx, makeRequest(map[string]any{"isbn": "missing"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing book")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleSearch(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)
	ctx := context.Background()

	_, err := h.HandleStore(ctx, makeRequest(map[string]any{
		"isbn":  "x-1",
		"title": "Findable Volume",
	}))
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := h.HandleSearch(ctx, makeRequest(map[string]any{"query": "findable"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("search failed: %v", extractErrorMessage(result))
	}

	var output map[string]any
	mustUnmarshalResult(t, result, &output)
	if output["count"] != float64(1) {
		t.Errorf("count = %v, want 1", output["count"])
	}

	// Blank query is a success with zero results.
	result, err = h.HandleSearch(ctx, makeRequest(map[string]any{"query": "  "}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("blank search failed: %v", extractErrorMessage(result))
	}
	mustUnmarshalResult(t, result, &output)
	if output["count"] != float64(0) {
		t.Errorf("blank count = %v, want 0", output["count"])
	}
}

func TestHandleCheckoutCheckin(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)
	ctx := context.Background()

	_, err := h.HandleStore(ctx, makeRequest(map[string]any{
		"isbn":  "x-1",
		"title": "Lendable",
	}))
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := h.HandleCheckout(ctx, makeRequest(map[string]any{
		"isbn":     "x-1",
		"borrower": "Sam",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("checkout failed: %v", extractErrorMessage(result))
	}

	var book map[string]any
	mustUnmarshalResult(t, result, &book)
	if book["checked_out_to"] != "Sam" {
		t.Errorf("checked_out_to = %v", book["checked_out_to"])
	}

	// Double checkout fails.
	result, _ = h.HandleCheckout(ctx, makeRequest(map[string]any{
		"isbn":     "x-1",
		"borrower": "Alex",
	}))
	if !result.IsError {
		t.Error("expected error result for double checkout")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, err = h.HandleCheckin(ctx, makeRequest(map[string]any{"isbn": "x-1"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("checkin failed: %v", extractErrorMessage(result))
	}
	book = map[string]any{}
	mustUnmarshalResult(t, result, &book)
	if _, present := book["checked_out_to"]; present {
		t.Errorf("checked_out_to still present after checkin: %v", book["checked_out_to"])
	}
}

func TestHandleShelfLifecycle(t *testing.T) {
	database := testSetup(t)
	h := NewHandlers(database)
	ctx := context.Background()
	addShelfForTest(t, h)

	// Duplicate shelf fails with DUPLICATE_KEY.
	result, _ := h.HandleShelfAdd(ctx, makeRequest(map[string]any{
		"location": "Library",
		"name":     "Tall shelf",
		"rows":     3,
		"columns":  4,
	}))
	if !result.IsError {
		t.Error("expected error result for duplicate shelf")
	}
	assertErrorCode(t, result, "DUPLICATE_KEY")

	result, err := h.HandleShelfList(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var listed map[string]any
	mustUnmarshalResult(t, result, &listed)
	if listed["count"] != float64(1) {
		t.Errorf("count = %v, want 1", listed["count"])
	}

	result, err = h.HandleShelfContents(ctx, makeRequest(map[string]any{
		"location": "Library",
		"name":     "Tall shelf",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("contents failed: %v", extractErrorMessage(result))
	}

	result, err = h.HandleShelfRemove(ctx, makeRequest(map[string]any{
		"location": "Library",
		"name":     "Tall shelf",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("remove failed: %v", extractErrorMessage(result))
	}

	result, _ = h.HandleShelfRemove(ctx, makeRequest(map[string]any{
		"location": "Library",
		"name":     "Tall shelf",
	}))
	if !result.IsError {
		t.Error("expected error result for removing absent shelf")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestToolRegistry_Complete(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("AllToolNames len = %d, want %d", len(names), len(toolRegistry))
	}

	for name, entry := range toolRegistry {
		if entry.def.Name != name {
			t.Errorf("tool %q registered under mismatched name %q", entry.def.Name, name)
		}
		if entry.handler == nil {
			t.Errorf("tool %q has no handler", name)
		}
	}
}

// Helpers

func mustUnmarshalResult(t *testing.T, result *mcp.CallToolResult, dst any) {
	t.Helper()

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent")
	}
	if err := json.Unmarshal([]byte(text.Text), dst); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}
	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
