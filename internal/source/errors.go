package source

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported strings file format")

	// ErrNoStrings is returned when a source holds no strings.
	ErrNoStrings = errors.New("no strings found")

	// ErrInvalidValue is returned when the value at the path is not a
	// string or a list of strings.
	ErrInvalidValue = errors.New("value is not a string list")

	// ErrWatcherClosed is returned when using a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ParseError reports a failure to load a strings file.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
