package ops

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pcrawfurd/hoard/internal/catalog"
	"github.com/pcrawfurd/hoard/internal/db"
	"github.com/pcrawfurd/hoard/internal/errors"
)

// CheckoutInput contains parameters for the Checkout operation.
type CheckoutInput struct {
	ISBN     string
	Borrower string
}

// Checkout marks a book as checked out to a person, stamping the checkout
// date. Both checked-out fields are written together.
func Checkout(database *sql.DB, input CheckoutInput) (*catalog.Book, error) {
	borrower := strings.TrimSpace(input.Borrower)
	if borrower == "" {
		return nil, errors.NewInvalidRequest("borrower name is required")
	}

	book, err := FetchBook(database, input.ISBN)
	if err != nil {
		return nil, err
	}
	if book.IsCheckedOut() {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("book is already checked out to %s", *book.CheckedOutTo))
	}

	date := catalog.NowISO()
	book.CheckedOutTo = &borrower
	book.CheckedOutDate = &date

	if _, err := db.UpsertBook(database, book); err != nil {
		return nil, err
	}

	return book, nil
}

// CheckinInput contains parameters for the Checkin operation.
// Slot optionally re-homes the book on return.
type CheckinInput struct {
	ISBN string
	Slot *catalog.Slot
}

// Checkin clears a book's checked-out state, optionally assigning a new
// home slot. The slot is validated by the repository on write.
func Checkin(database *sql.DB, input CheckinInput) (*catalog.Book, error) {
	book, err := FetchBook(database, input.ISBN)
	if err != nil {
		return nil, err
	}
	if !book.IsCheckedOut() {
		return nil, errors.NewInvalidRequest("book is not currently checked out")
	}

	book.CheckedOutTo = nil
	book.CheckedOutDate = nil
	if input.Slot != nil {
		book.HomeSlot = input.Slot
	}

	if _, err := db.UpsertBook(database, book); err != nil {
		return nil, err
	}

	return book, nil
}
