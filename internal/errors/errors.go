package errors

import "fmt"

// ErrorCode represents a hoard error code.
type ErrorCode string

const (
	ErrDuplicateKey    ErrorCode = "DUPLICATE_KEY"    // 409
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrConflict        ErrorCode = "CONFLICT"         // 409
	ErrInvalidLocation ErrorCode = "INVALID_LOCATION" // 400
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrStorage         ErrorCode = "STORAGE"          // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDuplicateShelf creates a 409 error for a (location, name) collision.
func NewDuplicateShelf(location, name string) *Error {
	return &Error{
		Code:    ErrDuplicateKey,
		Status:  409,
		Message: fmt.Sprintf("shelf %q already exists in %q", name, location),
		Details: map[string]any{"location": location, "name": name},
	}
}

// NewNotFound creates a 404 error for a missing record.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewShelfInUse creates a 409 error for shelf removal blocked by homed books.
// The dependent book count is reported in both message and details.
func NewShelfInUse(location, name string, count int) *Error {
	return &Error{
		Code:    ErrConflict,
		Status:  409,
		Message: fmt.Sprintf("cannot remove shelf %q in %q: %d books assigned", name, location, count),
		Details: map[string]any{"location": location, "name": name, "book_count": count},
	}
}

// NewInvalidLocation creates a 400 error for a home slot that does not
// resolve to an existing shelf or lies outside its grid.
func NewInvalidLocation(msg string) *Error {
	return &Error{
		Code:    ErrInvalidLocation,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewStorage creates a 500 error for unexpected storage-engine faults.
func NewStorage(err error) *Error {
	msg := "storage error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrStorage,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a hoard Error with the given code.
func Is(err error, code ErrorCode) bool {
	if hErr, ok := err.(*Error); ok {
		return hErr.Code == code
	}
	return false
}
