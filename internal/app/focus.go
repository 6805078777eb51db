package app

import "github.com/dshills/typewriter/internal/typing"

// focusBinder turns terminal focus reports into engine focus callbacks.
// It is used only on the frontend goroutine.
type focusBinder struct {
	onFocus func()
	onBlur  func()
	focused bool
}

func newFocusBinder() *focusBinder {
	return &focusBinder{}
}

func (f *focusBinder) BindFocus(onFocus, onBlur func()) func() {
	f.onFocus = onFocus
	f.onBlur = onBlur
	return func() {
		f.onFocus = nil
		f.onBlur = nil
	}
}

// HasInput is always false; the terminal target holds no user input.
func (f *focusBinder) HasInput() bool {
	return false
}

// set reports a focus change. Repeated reports of the same state are
// ignored.
func (f *focusBinder) set(focused bool) {
	if focused == f.focused {
		return
	}
	f.focused = focused

	if focused {
		if f.onFocus != nil {
			f.onFocus()
		}
		return
	}
	if f.onBlur != nil {
		f.onBlur()
	}
}

var _ typing.FocusSource = (*focusBinder)(nil)
