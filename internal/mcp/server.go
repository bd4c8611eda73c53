// Package mcp exposes the catalog over the Model Context Protocol so agent
// tooling can search and manage the hoard.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"book_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"book_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"book_store": {
		def:     storeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStore },
	},
	"book_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"book_checkout": {
		def:     checkoutToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheckout },
	},
	"book_checkin": {
		def:     checkinToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheckin },
	},
	"shelf_add": {
		def:     shelfAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShelfAdd },
	},
	"shelf_list": {
		def:     shelfListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShelfList },
	},
	"shelf_remove": {
		def:     shelfRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShelfRemove },
	},
	"shelf_contents": {
		def:     shelfContentsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleShelfContents },
	},
}

// AllToolNames returns a list of all registered tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with the hoard tools registered.
func NewServer(db *sql.DB, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hoard",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, version string) error {
	s := NewServer(db, version)
	return server.ServeStdio(s)
}
