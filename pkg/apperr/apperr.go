package apperr

import "errors"

// Code classifies a domain failure so handlers can map it to a transport
// status without matching on message strings.
type Code string

const (
	CodeValidation Code = "validation" // bad input or precondition violation
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict" // e.g. deleting an already-deleted record
	CodeStorage    Code = "storage"  // database/transaction failure
)

// Error is a coded domain error. Message is safe to return to clients for
// every code except CodeStorage, where handlers report a generic failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with the given client-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code carried by err, or CodeStorage for uncoded errors
// so unexpected failures never leak internals to clients.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStorage
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// MessageOf returns the client-facing message of a coded error, or the
// fallback for uncoded errors.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
