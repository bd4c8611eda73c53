package ops

import (
	"testing"
	"time"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/errors"
)

func TestCheckout_StampsBorrowerAndDate(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Lendable"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	book, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Sam"})
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	if book.CheckedOutTo == nil || *book.CheckedOutTo != "Sam" {
		t.Errorf("CheckedOutTo = %v, want Sam", book.CheckedOutTo)
	}
	if book.CheckedOutDate == nil {
		t.Fatal("CheckedOutDate = nil")
	}
	if _, err := time.Parse(time.RFC3339, *book.CheckedOutDate); err != nil {
		t.Errorf("CheckedOutDate %q not RFC 3339: %v", *book.CheckedOutDate, err)
	}

	// Persisted, not just in the returned copy.
	got, err := FetchBook(database, "x-1")
	if err != nil {
		t.Fatalf("FetchBook failed: %v", err)
	}
	if !got.IsCheckedOut() {
		t.Error("checkout not persisted")
	}
}

func TestCheckout_RequiresBorrower(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Lendable"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	_, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "  "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank borrower error = %v, want INVALID_REQUEST", err)
	}
}

func TestCheckout_AlreadyOut(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Lendable"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}
	if _, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Sam"}); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	_, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Alex"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("double checkout error = %v, want INVALID_REQUEST", err)
	}
}

func TestCheckout_NotFound(t *testing.T) {
	database := openTest(t)

	_, err := Checkout(database, CheckoutInput{ISBN: "missing", Borrower: "Sam"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Checkout error = %v, want NOT_FOUND", err)
	}
}

func TestCheckin_ClearsPair(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Lendable"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}
	if _, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Sam"}); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	book, err := Checkin(database, CheckinInput{ISBN: "x-1"})
	if err != nil {
		t.Fatalf("Checkin failed: %v", err)
	}
	if book.CheckedOutTo != nil || book.CheckedOutDate != nil {
		t.Error("checked-out fields not cleared together")
	}
}

func TestCheckin_NotOut(t *testing.T) {
	database := openTest(t)

	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Home"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}

	_, err := Checkin(database, CheckinInput{ISBN: "x-1"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Checkin error = %v, want INVALID_REQUEST", err)
	}
}

func TestCheckin_WithNewHomeSlot(t *testing.T) {
	database := openTest(t)

	if _, err := AddShelf(database, AddShelfInput{
		Location: "Library", Name: "Tall shelf", Rows: 3, Columns: 4,
	}); err != nil {
		t.Fatalf("AddShelf failed: %v", err)
	}
	if _, err := StoreBook(database, StoreBookInput{Book: catalog.Book{ISBN: "x-1", Title: "Wanderer"}}); err != nil {
		t.Fatalf("StoreBook failed: %v", err)
	}
	if _, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Sam"}); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	slot := &catalog.Slot{Location: "Library", ShelfName: "Tall shelf", Column: 2, Row: 0}
	book, err := Checkin(database, CheckinInput{ISBN: "x-1", Slot: slot})
	if err != nil {
		t.Fatalf("Checkin failed: %v", err)
	}
	if book.HomeSlot == nil || book.HomeSlot.String() != "Library/Tall shelf/C2R0" {
		t.Errorf("HomeSlot = %v, want re-homed slot", book.HomeSlot)
	}

	// An invalid re-home slot fails and leaves the book checked out.
	if _, err := Checkout(database, CheckoutInput{ISBN: "x-1", Borrower: "Sam"}); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	bad := &catalog.Slot{Location: "Library", ShelfName: "Tall shelf", Column: 9, Row: 0}
	if _, err := Checkin(database, CheckinInput{ISBN: "x-1", Slot: bad}); !errors.Is(err, errors.ErrInvalidLocation) {
		t.Fatalf("bad slot error = %v, want INVALID_LOCATION", err)
	}

	got, err := FetchBook(database, "x-1")
	if err != nil {
		t.Fatalf("FetchBook failed: %v", err)
	}
	if !got.IsCheckedOut() {
		t.Error("failed checkin cleared the checkout anyway")
	}
}
