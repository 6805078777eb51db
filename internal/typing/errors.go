package typing

import (
	"errors"
	"fmt"

	"github.com/dshills/typewriter/internal/humanize"
)

// Configuration errors.
var (
	// ErrNoStrings indicates an empty string list.
	ErrNoStrings = errors.New("no strings to type")

	// ErrNegativeDuration indicates a negative speed or delay.
	ErrNegativeDuration = errors.New("negative duration")

	// ErrInvalidSpeed indicates a speed that could not be parsed.
	ErrInvalidSpeed = humanize.ErrInvalidSpeed

	// ErrInvalidContentType indicates an unknown content type.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrNoSink indicates a nil render sink.
	ErrNoSink = errors.New("no render sink")
)

// ConfigError describes an invalid option.
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("typing: invalid %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
