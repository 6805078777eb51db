package renderer

import "github.com/dshills/typewriter/internal/typing"

// Tee forwards every call to several sinks in order.
type Tee []typing.Sink

// NewTee creates a tee over the non-nil sinks.
func NewTee(sinks ...typing.Sink) Tee {
	t := make(Tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

func (t Tee) SetText(raw string) {
	for _, s := range t {
		s.SetText(raw)
	}
}

func (t Tee) SetCursorVisible(visible bool) {
	for _, s := range t {
		s.SetCursorVisible(visible)
	}
}

func (t Tee) SetCursorBlink(blinking bool) {
	for _, s := range t {
		s.SetCursorBlink(blinking)
	}
}

func (t Tee) SetFadeClass(on bool) {
	for _, s := range t {
		s.SetFadeClass(on)
	}
}

var _ typing.Sink = Tee(nil)
