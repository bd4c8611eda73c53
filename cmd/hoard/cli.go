package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/config"
	"github.com/pcrawfurd/hoard/internal/errors"
	"github.com/pcrawfurd/hoard/internal/legacy"
	"github.com/pcrawfurd/hoard/internal/lookup"
	"github.com/pcrawfurd/hoard/internal/ops"
	"github.com/pcrawfurd/hoard/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "hoard",
		Usage:   "Personal book catalog",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg),
			getCmd(db),
			rmCmd(db),
			listCmd(db),
			searchCmd(db),
			checkoutCmd(db),
			checkinCmd(db),
			shelfAddCmd(db),
			shelvesCmd(db),
			shelfRemoveCmd(db),
			shelfCmd(db),
			migrateCmd(cfg),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// slotFlags are shared by commands that accept a home slot.
func slotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Home shelf location"},
		&cli.StringFlag{Name: "shelf", Aliases: []string{"s"}, Usage: "Home shelf name"},
		&cli.IntFlag{Name: "column", Aliases: []string{"c"}, Usage: "Home slot column, 0-indexed"},
		&cli.IntFlag{Name: "row", Aliases: []string{"r"}, Usage: "Home slot row, 0-indexed"},
	}
}

// slotFromFlags builds a slot from the shared flags, nil when none are set.
func slotFromFlags(c *cli.Context) (*catalog.Slot, error) {
	set := c.IsSet("location") || c.IsSet("shelf") || c.IsSet("column") || c.IsSet("row")
	if !set {
		return nil, nil
	}
	if !c.IsSet("location") || !c.IsSet("shelf") || !c.IsSet("column") || !c.IsSet("row") {
		return nil, errors.NewInvalidRequest("a home slot needs --location, --shelf, --column, and --row together")
	}
	return &catalog.Slot{
		Location:  c.String("location"),
		ShelfName: c.String("shelf"),
		Column:    c.Int("column"),
		Row:       c.Int("row"),
	}, nil
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Book title (required when no ISBN is given)"},
		&cli.StringFlag{Name: "authors", Aliases: []string{"a"}, Usage: "Comma-separated author names"},
		&cli.StringFlag{Name: "genres", Aliases: []string{"g"}, Usage: "Comma-separated genre tags"},
		&cli.StringFlag{Name: "publisher", Usage: "Publisher name"},
		&cli.StringFlag{Name: "published", Usage: "Publication date"},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Description / synopsis"},
		&cli.IntFlag{Name: "pages", Usage: "Page count"},
		&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
		&cli.StringFlag{Name: "language", Usage: "Language tag"},
		&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Free-text notes"},
		&cli.BoolFlag{Name: "no-lookup", Usage: "Skip the metadata lookup, store flag values only"},
	}
	flags = append(flags, slotFlags()...)

	return &cli.Command{
		Name:      "add",
		Usage:     "Add or replace a book, looking up metadata by ISBN when given",
		ArgsUsage: "[isbn]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			book := catalog.Book{}

			// ISBN given: try the metadata lookup first, flags override.
			if c.NArg() > 0 {
				isbn := c.Args().First()
				book.ISBN = isbn
				if !c.Bool("no-lookup") {
					client := lookup.NewClient(cfg.LookupAPIKey)
					found, err := client.Lookup(isbn)
					if err != nil {
						fmt.Fprintf(os.Stderr, "warning: metadata lookup failed: %v\n", err)
					} else if found != nil {
						book = *found
						book.ISBN = isbn
					}
				}
			}

			if title := c.String("title"); title != "" {
				book.Title = title
			}
			if c.IsSet("authors") {
				book.Authors = parseList(c.String("authors"))
			}
			if c.IsSet("genres") {
				book.Genres = parseList(c.String("genres"))
			}
			if v := c.String("publisher"); v != "" {
				book.Publisher = &v
			}
			if v := c.String("published"); v != "" {
				book.PublishedDate = &v
			}
			if v := c.String("description"); v != "" {
				book.Description = &v
			}
			if v := c.Int("pages"); v > 0 {
				book.PageCount = &v
			}
			if v := c.String("cover"); v != "" {
				book.CoverURL = &v
			}
			if v := c.String("language"); v != "" {
				book.Language = &v
			}
			if v := c.String("notes"); v != "" {
				book.Notes = &v
			}

			slot, err := slotFromFlags(c)
			if err != nil {
				return outputError(err)
			}
			book.HomeSlot = slot

			output, err := ops.StoreBook(db, ops.StoreBookInput{Book: book})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a book by identifier",
		ArgsUsage: "<isbn>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("an identifier is required"))
			}

			book, err := ops.FetchBook(db, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(book)
		},
	}
}

// rmCmd creates the rm command.
func rmCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a book from the catalog",
		ArgsUsage: "<isbn>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("an identifier is required"))
			}

			isbn := c.Args().First()
			if err := ops.DeleteBook(db, isbn); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"deleted": isbn})
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every book in the catalog",
		Action: func(c *cli.Context) error {
			output, err := ops.ListBooks(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search by title, author, description, or ISBN fragment",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")

			output, err := ops.Search(db, query)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// checkoutCmd creates the checkout command.
func checkoutCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "checkout",
		Usage:     "Check a book out to a person",
		ArgsUsage: "<isbn>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "Who has the book"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("an identifier is required"))
			}

			book, err := ops.Checkout(db, ops.CheckoutInput{
				ISBN:     c.Args().First(),
				Borrower: c.String("to"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(book)
		},
	}
}

// checkinCmd creates the checkin command.
func checkinCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "checkin",
		Usage:     "Return a checked-out book, optionally to a new home slot",
		ArgsUsage: "<isbn>",
		Flags:     slotFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("an identifier is required"))
			}

			slot, err := slotFromFlags(c)
			if err != nil {
				return outputError(err)
			}

			book, err := ops.Checkin(db, ops.CheckinInput{
				ISBN: c.Args().First(),
				Slot: slot,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(book)
		},
	}
}

// shelfAddCmd creates the shelf-add command.
func shelfAddCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "shelf-add",
		Usage: "Create a shelf: a named grid of book slots at a location",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Required: true, Usage: "Where the shelf stands"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Shelf name, unique within the location"},
			&cli.IntFlag{Name: "rows", Required: true, Usage: "Row count"},
			&cli.IntFlag{Name: "columns", Required: true, Usage: "Column count"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Optional description"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddShelfInput{
				Location: c.String("location"),
				Name:     c.String("name"),
				Rows:     c.Int("rows"),
				Columns:  c.Int("columns"),
			}
			if d := c.String("description"); d != "" {
				input.Description = &d
			}

			output, err := ops.AddShelf(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// shelvesCmd creates the shelves command.
func shelvesCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "shelves",
		Usage: "List all shelves",
		Action: func(c *cli.Context) error {
			output, err := ops.ListShelves(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// shelfRemoveCmd creates the shelf-remove command.
func shelfRemoveCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "shelf-remove",
		Usage: "Remove an empty shelf",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Required: true, Usage: "Shelf location"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Shelf name"},
		},
		Action: func(c *cli.Context) error {
			location := c.String("location")
			name := c.String("name")
			if err := ops.RemoveShelf(db, location, name); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"removed": location + "/" + name})
		},
	}
}

// shelfCmd creates the shelf command (contents listing).
func shelfCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "shelf",
		Usage:     "List the books on a shelf, optionally narrowed to one slot",
		ArgsUsage: "<location> <name>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "column", Aliases: []string{"c"}, Usage: "Slot column, 0-indexed"},
			&cli.IntFlag{Name: "row", Aliases: []string{"r"}, Usage: "Slot row, 0-indexed"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("a shelf location and name are required"))
			}

			input := ops.ShelfContentsInput{
				Location: c.Args().Get(0),
				Name:     c.Args().Get(1),
			}
			if c.IsSet("column") {
				v := c.Int("column")
				input.Column = &v
			}
			if c.IsSet("row") {
				v := c.Int("row")
				input.Row = &v
			}

			output, err := ops.ShelfContents(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// migrateCmd creates the migrate command. It opens its own database handle
// so --db can target a file other than the configured one.
func migrateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Import a legacy JSON catalog into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "json-dir", Aliases: []string{"j"}, Required: true, Usage: "Directory holding the legacy JSON files"},
			&cli.StringFlag{Name: "db", Usage: "Target database path (default: the configured database)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Report what would be migrated without writing"},
			&cli.BoolFlag{Name: "force", Usage: "Replace an existing database (backing it up first)"},
			&cli.StringFlag{Name: "backup", Usage: "Backup path used with --force (default: <db>.bak)"},
		},
		Action: func(c *cli.Context) error {
			dbPath := c.String("db")
			if dbPath == "" {
				dbPath = config.ResolveDBPath(cfg, dataDir())
			}

			output, err := legacy.Migrate(legacy.MigrateInput{
				JSONDir:    c.String("json-dir"),
				DBPath:     dbPath,
				DryRun:     c.Bool("dry-run"),
				Force:      c.Bool("force"),
				BackupPath: c.String("backup"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only browser UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default: from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default: from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(db, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if hErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", hErr.Code, hErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated string into trimmed parts.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
