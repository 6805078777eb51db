package renderer

import (
	"sync"

	"github.com/dshills/typewriter/internal/typing"
)

// TitleSetter sets a window title.
type TitleSetter interface {
	SetTitle(title string)
}

// TitleSink types into the window title. Markup is stripped and the
// cursor glyph is appended while the cursor is visible. Blinking and
// fading are not shown.
type TitleSink struct {
	mu         sync.Mutex
	target     TitleSetter
	markup     bool
	cursorChar string

	text          string
	cursorVisible bool
}

// NewTitleSink creates a sink writing to target.
func NewTitleSink(target TitleSetter, markup bool, cursorChar string) *TitleSink {
	return &TitleSink{
		target:     target,
		markup:     markup,
		cursorChar: cursorChar,
	}
}

func (s *TitleSink) SetText(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.markup {
		s.text = SpansText(ParseMarkup(raw))
	} else {
		s.text = raw
	}
	s.update()
}

func (s *TitleSink) SetCursorVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursorVisible = visible
	s.update()
}

func (s *TitleSink) SetCursorBlink(bool) {}

func (s *TitleSink) SetFadeClass(bool) {}

// Title returns the current title text.
func (s *TitleSink) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title()
}

func (s *TitleSink) title() string {
	if s.cursorVisible {
		return s.text + s.cursorChar
	}
	return s.text
}

func (s *TitleSink) update() {
	s.target.SetTitle(s.title())
}

var _ typing.Sink = (*TitleSink)(nil)
