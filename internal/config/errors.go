package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates an explicitly requested config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidValue indicates a setting holds an unsupported value.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError describes a setting that failed validation.
type ValidationError struct {
	// Key is the dotted setting key, e.g. "ui.mode".
	Key string

	// Value is the offending value.
	Value any

	// Err is the underlying error.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %v", e.Key, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
