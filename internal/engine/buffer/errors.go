package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrIsDirectory indicates the load target is a directory.
	// Opening directories is not implemented.
	ErrIsDirectory = errors.New("is a directory: not supported")

	// ErrInvalidEncoding indicates the file content is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("invalid UTF-8 content")
)

// LoadError records a failed Load and the path it was loading.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("load %s", e.Path)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsDirectoryError reports whether err is a directory load failure.
func IsDirectoryError(err error) bool {
	return errors.Is(err, ErrIsDirectory)
}
