package terminal

import (
	"errors"
	"fmt"
)

// Terminal errors.
var (
	// ErrNotInitialized indicates an operation was issued outside an
	// Initialize/Terminate session.
	ErrNotInitialized = errors.New("terminal not initialized")

	// ErrAlreadyInitialized indicates Initialize was called twice.
	ErrAlreadyInitialized = errors.New("terminal already initialized")
)

// IOError represents a failure talking to the terminal device.
type IOError struct {
	Op  string // Operation name (e.g., "initialize", "execute")
	Err error  // Underlying error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("terminal %s", e.Op)
	}
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
