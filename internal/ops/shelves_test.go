package ops

import (
	"testing"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
)

func TestAddShelf_AndList(t *testing.T) {
	database := openTest(t)

	out, err := AddShelf(database, AddShelfInput{
		Location: "Library", Name: "Tall shelf", Rows: 3, Columns: 4,
	})
	if err != nil {
		t.Fatalf("AddShelf failed: %v", err)
	}
	if out.Shelf.Location != "Library" || out.Shelf.Name != "Tall shelf" {
		t.Errorf("Shelf = %+v", out.Shelf)
	}

	listed, err := ListShelves(database)
	if err != nil {
		t.Fatalf("ListShelves failed: %v", err)
	}
	if listed.Count != 1 || len(listed.Shelves) != 1 {
		t.Errorf("Count = %d, want 1", listed.Count)
	}
}

func TestGetShelf_NotFound(t *testing.T) {
	database := openTest(t)

	_, err := GetShelf(database, "Nowhere", "Nothing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetShelf error = %v, want NOT_FOUND", err)
	}
}

func TestRemoveShelf_NotFound(t *testing.T) {
	database := openTest(t)

	err := RemoveShelf(database, "Nowhere", "Nothing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("RemoveShelf error = %v, want NOT_FOUND", err)
	}
}

func TestShelfContents_RequiresShelf(t *testing.T) {
	database := openTest(t)

	_, err := ShelfContents(database, ShelfContentsInput{Location: "Nowhere", Name: "Nothing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ShelfContents error = %v, want NOT_FOUND", err)
	}
}

func TestShelfContents_SlotBounds(t *testing.T) {
	database := openTest(t)

	if _, err := AddShelf(database, AddShelfInput{
		Location: "Library", Name: "Tall shelf", Rows: 3, Columns: 4,
	}); err != nil {
		t.Fatalf("AddShelf failed: %v", err)
	}

	_, err := ShelfContents(database, ShelfContentsInput{
		Location: "Library", Name: "Tall shelf", Column: intPtr(4),
	})
	if !errors.Is(err, errors.ErrInvalidLocation) {
		t.Errorf("column bounds error = %v, want INVALID_LOCATION", err)
	}

	_, err = ShelfContents(database, ShelfContentsInput{
		Location: "Library", Name: "Tall shelf", Row: intPtr(-1),
	})
	if !errors.Is(err, errors.ErrInvalidLocation) {
		t.Errorf("row bounds error = %v, want INVALID_LOCATION", err)
	}
}

func TestShelfContents_ListsHomedBooks(t *testing.T) {
	database := openTest(t)

	if _, err := AddShelf(database, AddShelfInput{
		Location: "Library", Name: "Tall shelf", Rows: 3, Columns: 4,
	}); err != nil {
		t.Fatalf("AddShelf failed: %v", err)
	}

	_, err := StoreBook(database, StoreBookInput{Book: catalog.Book{
		ISBN:     "a-1",
		Title:    "Shelved",
		HomeSlot: &catalog.Slot{Location: "Library", ShelfName: "Tall shelf", Column: 1, Row: 2},
	}})
	if err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	out, err := ShelfContents(database, ShelfContentsInput{Location: "Library", Name: "Tall shelf"})
	if err != nil {
		t.Fatalf("ShelfContents failed: %v", err)
	}
	if out.Count != 1 || len(out.Books) != 1 {
		t.Fatalf("Count = %d, want 1", out.Count)
	}
	if out.Books[0].ISBN != "a-1" {
		t.Errorf("Books[0] = %q", out.Books[0].ISBN)
	}
	if out.Shelf.Name != "Tall shelf" {
		t.Errorf("Shelf = %+v", out.Shelf)
	}
}
