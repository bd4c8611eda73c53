package ops

import (
	"testing"

	"github.com/pcrawfurd/hoard/internal/catalog"
)

func TestSearch_BlankQuery_EmptyResult(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Findable"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	out, err := Search(database, "   ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if out.Count != 0 || len(out.Books) != 0 {
		t.Errorf("blank query returned %d results, want 0", out.Count)
	}
}

func TestSearch_EchoesQuery(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Findable Book"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	out, err := Search(database, "findable")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if out.Query != "findable" {
		t.Errorf("Query = %q, want echo", out.Query)
	}
	if out.Count != 1 || out.Books[0].ISBN != "x-1" {
		t.Errorf("Books = %v, want the one match", out.Books)
	}
}
