package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced song or attempt does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIncompatibleVersion is returned when the store was created by a newer
	// release of the software. No destructive downgrade is attempted.
	ErrIncompatibleVersion = errors.New("store schema is newer than this release supports")
)

// ValidationError reports a malformed input, such as an empty snapshot or
// duplicate song identifiers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
