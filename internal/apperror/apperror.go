// Package apperror defines the tagged errors that cross the service boundary.
//
// Two kinds matter to callers:
//   - ErrNotFound   → the referenced record does not exist (HTTP 404)
//   - ErrValidation → the input failed to parse or validate (HTTP 400)
//
// Anything else is an operation failure (store unreachable, timeout, malformed
// identifier) and is reported to clients as a generic 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

type AppError struct {
	Err      error  // sentinel kind
	Message  string // Human-readable error message
	Field    string // Optional: field causing the error
	Resource string // Optional: kind of record that was not found
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:      ErrNotFound,
		Message:  fmt.Sprintf("%s not found with id %s", resource, id),
		Resource: resource,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// IsNotFound reports whether err carries ErrNotFound anywhere in its chain.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err carries ErrValidation anywhere in its chain.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
