package apperrors

import "errors"

// Sentinel errors shared across the application. Services return these
// without knowing about HTTP; the API layer maps them to status codes with
// errors.Is.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current
	// state of a resource, e.g. submitting to a session that already has a
	// response in flight. Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal signifies an unexpected server-side failure. Mapped to
	// 500 Internal Server Error without leaking details to the client.
	ErrInternal = errors.New("internal server error")
)
