package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSource indicates the engine was constructed without a catalog source.
	ErrNilSource = errors.New("catalog source cannot be nil")
)

// ReloadError indicates a catalog reload failure. The previously loaded
// catalog stays in effect when a reload fails.
type ReloadError struct {
	Cause error
}

// Error returns the error message.
func (e *ReloadError) Error() string {
	return fmt.Sprintf("catalog reload failed: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ReloadError) Unwrap() error {
	return e.Cause
}
