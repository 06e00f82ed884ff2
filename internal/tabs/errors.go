package tabs

import (
	"errors"
	"fmt"
)

// Sentinel errors for tab operations.
var (
	// ErrNotReady is returned when an operation needs the content container
	// and none has been bound with SetContentContainer.
	ErrNotReady = errors.New("content container is not available")

	// ErrInvalidSpec is returned when a tab spec is missing required fields.
	ErrInvalidSpec = errors.New("invalid tab spec")

	// ErrNotFound is returned when the referenced tab does not exist.
	ErrNotFound = errors.New("tab does not exist")

	// ErrDuplicateKey reports a creation attempt with a key already in use.
	// It is informational: nothing was changed.
	ErrDuplicateKey = errors.New("tab key already exists")
)

// Error describes a failed tab operation.
type Error struct {
	// Op is the manager operation, e.g. "create" or "update".
	Op string
	// Key is the tab key involved, if any.
	Key string
	// Err is one of the sentinel errors, possibly wrapped.
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("tabs.%s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("tabs.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether err is a duplicate-key condition.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
