package sound

import (
	"sync"
	"unicode/utf8"

	"github.com/dshills/typewriter/internal/typing"
)

// Sink clicks whenever the typed text grows or shrinks.
type Sink struct {
	mu      sync.Mutex
	clicker Clicker
	length  int
}

// NewSink creates a sink playing through c.
func NewSink(c Clicker) *Sink {
	return &Sink{clicker: c}
}

func (s *Sink) SetText(raw string) {
	s.mu.Lock()
	n := utf8.RuneCountInString(raw)
	prev := s.length
	s.length = n
	s.mu.Unlock()

	switch {
	case n > prev:
		s.clicker.Click(ClickType)
	case n < prev:
		s.clicker.Click(ClickErase)
	}
}

func (s *Sink) SetCursorVisible(bool) {}

func (s *Sink) SetCursorBlink(bool) {}

func (s *Sink) SetFadeClass(bool) {}

var _ typing.Sink = (*Sink)(nil)
