package mcp

import "github.com/mark3labs/mcp-go/mcp"

var searchToolDef = mcp.NewTool("book_search",
	mcp.WithDescription("Search the catalog by title, author, description, or ISBN fragment. Returns a ranked, de-duplicated list."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query or (partial) ISBN")),
)

var getToolDef = mcp.NewTool("book_get",
	mcp.WithDescription("Fetch one book by its identifier, with its home shelf slot resolved."),
	mcp.WithString("isbn", mcp.Required(), mcp.Description("Book identifier (ISBN or surrogate key)")),
)

var storeToolDef = mcp.NewTool("book_store",
	mcp.WithDescription("Add or fully replace a book. Omit isbn to generate a surrogate identifier."),
	mcp.WithString("isbn", mcp.Description("Book identifier; generated when omitted")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Book title")),
	mcp.WithArray("authors", mcp.Description("Author names in order"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("publisher", mcp.Description("Publisher name")),
	mcp.WithString("published_date", mcp.Description("Publication date (free text)")),
	mcp.WithString("description", mcp.Description("Description / synopsis")),
	mcp.WithArray("genres", mcp.Description("Genre tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("page_count", mcp.Description("Page count")),
	mcp.WithString("cover_url", mcp.Description("Cover image URL")),
	mcp.WithString("language", mcp.Description("Language tag")),
	mcp.WithString("notes", mcp.Description("Free-text notes")),
	mcp.WithString("location", mcp.Description("Home shelf location (with shelf, column, row)")),
	mcp.WithString("shelf", mcp.Description("Home shelf name")),
	mcp.WithNumber("column", mcp.Description("Home slot column, 0-indexed")),
	mcp.WithNumber("row", mcp.Description("Home slot row, 0-indexed")),
)

var deleteToolDef = mcp.NewTool("book_delete",
	mcp.WithDescription("Remove a book from the catalog."),
	mcp.WithString("isbn", mcp.Required(), mcp.Description("Book identifier")),
)

var checkoutToolDef = mcp.NewTool("book_checkout",
	mcp.WithDescription("Check a book out to a person, stamping the checkout date."),
	mcp.WithString("isbn", mcp.Required(), mcp.Description("Book identifier")),
	mcp.WithString("borrower", mcp.Required(), mcp.Description("Who has the book")),
)

var checkinToolDef = mcp.NewTool("book_checkin",
	mcp.WithDescription("Return a checked-out book, optionally assigning a new home slot."),
	mcp.WithString("isbn", mcp.Required(), mcp.Description("Book identifier")),
	mcp.WithString("location", mcp.Description("New home shelf location (with shelf, column, row)")),
	mcp.WithString("shelf", mcp.Description("New home shelf name")),
	mcp.WithNumber("column", mcp.Description("New home slot column, 0-indexed")),
	mcp.WithNumber("row", mcp.Description("New home slot row, 0-indexed")),
)

var shelfAddToolDef = mcp.NewTool("shelf_add",
	mcp.WithDescription("Create a shelf: a named grid of book slots at a location."),
	mcp.WithString("location", mcp.Required(), mcp.Description("Where the shelf stands, e.g. \"Library\"")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Shelf name, unique within the location")),
	mcp.WithNumber("rows", mcp.Required(), mcp.Description("Row count, must be positive")),
	mcp.WithNumber("columns", mcp.Required(), mcp.Description("Column count, must be positive")),
	mcp.WithString("description", mcp.Description("Optional free-text description")),
)

var shelfListToolDef = mcp.NewTool("shelf_list",
	mcp.WithDescription("List all shelves ordered by location and name."),
)

var shelfRemoveToolDef = mcp.NewTool("shelf_remove",
	mcp.WithDescription("Remove an empty shelf. Fails while any book still calls it home."),
	mcp.WithString("location", mcp.Required(), mcp.Description("Shelf location")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Shelf name")),
)

var shelfContentsToolDef = mcp.NewTool("shelf_contents",
	mcp.WithDescription("List the books on a shelf (checked-out books excluded), optionally narrowed to one slot."),
	mcp.WithString("location", mcp.Required(), mcp.Description("Shelf location")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Shelf name")),
	mcp.WithNumber("column", mcp.Description("Slot column, 0-indexed")),
	mcp.WithNumber("row", mcp.Description("Slot row, 0-indexed")),
)
