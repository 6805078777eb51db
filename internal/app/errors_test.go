package app

import (
	"errors"
	"testing"
)

func TestComponentError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "component only",
			err:      &ComponentError{Component: "source"},
			expected: "source",
		},
		{
			name:     "component and action",
			err:      &ComponentError{Component: "source", Action: "load"},
			expected: "source: load",
		},
		{
			name:     "component and error",
			err:      &ComponentError{Component: "script", Err: errors.New("bad lua")},
			expected: "script: bad lua",
		},
		{
			name:     "full",
			err:      NewComponentError("backend", "init", errors.New("no tty")),
			expected: "backend: init: no tty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := NewComponentError("source", "watch", inner)

	if err.Unwrap() != inner {
		t.Error("Unwrap() did not return inner error")
	}

	var nilErr *ComponentError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil from Unwrap() on nil receiver")
	}
}

func TestComponentError_Is(t *testing.T) {
	err := NewComponentError("ui", "select", ErrNoFrontend)

	if !errors.Is(err, ErrNoFrontend) {
		t.Error("expected errors.Is to match the wrapped sentinel")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match the same wrapper")
	}
	if errors.Is(err, NewComponentError("ui", "select", ErrNoFrontend)) {
		t.Error("expected a different wrapper not to match")
	}
	if errors.Is(err, ErrQuit) {
		t.Error("expected unrelated sentinel not to match")
	}

	var nilErr *ComponentError
	if nilErr.Is(ErrNoFrontend) {
		t.Error("expected nil receiver not to match")
	}
}
