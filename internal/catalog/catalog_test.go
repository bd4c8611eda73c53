package catalog

import (
	"reflect"
	"testing"
)

func stringPtr(s string) *string { return &s }

func TestSlot_String(t *testing.T) {
	slot := Slot{Location: "Library", ShelfName: "Tall shelf", Column: 2, Row: 0}
	if got := slot.String(); got != "Library/Tall shelf/C2R0" {
		t.Errorf("String = %q, want %q", got, "Library/Tall shelf/C2R0")
	}
}

func TestShelf_String(t *testing.T) {
	shelf := Shelf{Location: "Office", Name: "Corner", Rows: 3, Columns: 4}
	if got := shelf.String(); got != "Corner in Office (4x3)" {
		t.Errorf("String = %q, want %q", got, "Corner in Office (4x3)")
	}

	shelf.Description = stringPtr("paperbacks")
	if got := shelf.String(); got != "Corner in Office (4x3) - paperbacks" {
		t.Errorf("String = %q, want %q", got, "Corner in Office (4x3) - paperbacks")
	}
}

func TestBook_CurrentLocation(t *testing.T) {
	book := Book{ISBN: "1", Title: "t"}
	if got := book.CurrentLocation(); got != "Location unknown" {
		t.Errorf("CurrentLocation = %q, want %q", got, "Location unknown")
	}

	book.HomeSlot = &Slot{Location: "Library", ShelfName: "Tall shelf", Column: 1, Row: 2}
	if got := book.CurrentLocation(); got != "Library/Tall shelf/C1R2" {
		t.Errorf("CurrentLocation = %q, want %q", got, "Library/Tall shelf/C1R2")
	}

	// Checked out wins over the home slot.
	book.CheckedOutTo = stringPtr("Sam")
	if got := book.CurrentLocation(); got != "Checked out to Sam" {
		t.Errorf("CurrentLocation = %q, want %q", got, "Checked out to Sam")
	}
}

func TestBook_AuthorsOrPlaceholder(t *testing.T) {
	book := Book{}
	if got := book.AuthorsOrPlaceholder(); !reflect.DeepEqual(got, []string{UnknownAuthor}) {
		t.Errorf("AuthorsOrPlaceholder = %v, want placeholder", got)
	}

	book.Authors = []string{"N. K. Jemisin"}
	if got := book.AuthorsOrPlaceholder(); !reflect.DeepEqual(got, book.Authors) {
		t.Errorf("AuthorsOrPlaceholder = %v, want %v", got, book.Authors)
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	if got := NormalizeTimestamp("  "); got != "" {
		t.Errorf("blank = %q, want empty", got)
	}

	// Offset timestamps normalize to UTC.
	got := NormalizeTimestamp("2024-03-01T10:00:00+02:00")
	if got != "2024-03-01T08:00:00Z" {
		t.Errorf("normalize = %q, want %q", got, "2024-03-01T08:00:00Z")
	}

	// Free-text dates pass through untouched.
	if got := NormalizeTimestamp("March 2024"); got != "March 2024" {
		t.Errorf("passthrough = %q, want %q", got, "March 2024")
	}
}
