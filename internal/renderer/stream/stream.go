// Package stream provides a render sink that writes typed text to an
// io.Writer.
//
// On a terminal the sink rewrites a single line with ANSI control
// sequences as the text changes. On any other writer it prints each
// string once, when it is fully typed.
package stream

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dshills/typewriter/internal/renderer"
	"github.com/dshills/typewriter/internal/renderer/core"
	"github.com/dshills/typewriter/internal/typing"
)

// Mode selects how the sink writes.
type Mode int

const (
	// ModeAuto rewrites when the writer is a terminal and prints lines
	// otherwise.
	ModeAuto Mode = iota
	// ModeRewrite always rewrites the current line.
	ModeRewrite
	// ModeLine always prints finished strings line by line.
	ModeLine
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\x1b[2K"

// Options configures a Sink.
type Options struct {
	Mode Mode

	// Markup interprets the text as html.
	Markup bool

	// CursorChar is appended while the cursor is visible in rewrite mode.
	CursorChar string

	// Foreground is a lipgloss color ("#ff8800", "12"). Empty keeps the
	// terminal default.
	Foreground string

	// Bold renders all text bold.
	Bold bool
}

// Sink writes typed text to a writer.
type Sink struct {
	mu          sync.Mutex
	w           io.Writer
	opts        Options
	interactive bool
	painter     Painter

	text          string
	width         int
	cursorVisible bool
	faded         bool
	pending       bool
	written       bool
	err           error
}

// New creates a sink writing to w.
func New(w io.Writer, opts Options) *Sink {
	interactive := opts.Mode == ModeRewrite
	if opts.Mode == ModeAuto {
		interactive = IsTerminal(w)
	}

	return &Sink{
		w:           w,
		opts:        opts,
		interactive: interactive,
		painter:     NewPainter(lipgloss.NewRenderer(w), opts),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether the sink rewrites a single line.
func (s *Sink) Interactive() bool {
	return s.interactive
}

func (s *Sink) SetText(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	width := s.painter.Width(raw)
	if s.interactive {
		s.text, s.width = raw, width
		s.redraw()
		return
	}

	if width < s.width && s.pending {
		s.println(s.text)
		s.pending = false
	}
	if width > 0 && width >= s.width {
		s.pending = true
	}
	s.text, s.width = raw, width
}

func (s *Sink) SetCursorVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursorVisible = visible
	if s.interactive {
		s.redraw()
	}
}

// SetCursorBlink is ignored; the line is not redrawn on a timer.
func (s *Sink) SetCursorBlink(bool) {}

func (s *Sink) SetFadeClass(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faded = on
	if s.interactive {
		s.redraw()
	}
}

// Flush ends the output. In line mode it prints a string that was typed
// but never removed; in rewrite mode it ends the current line.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interactive {
		if s.written {
			s.write("\n")
			s.written = false
		}
	} else if s.pending {
		s.println(s.text)
		s.pending = false
	}
	return s.err
}

// Err returns the first write error.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Sink) redraw() {
	line := s.painter.Render(s.text, s.faded)
	if s.cursorVisible {
		line += s.opts.CursorChar
	}
	s.write(clearLine + line)
	s.written = true
}

func (s *Sink) println(raw string) {
	s.write(s.painter.Render(raw, s.faded) + "\n")
}

func (s *Sink) write(out string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, out)
}

var _ typing.Sink = (*Sink)(nil)

// Painter styles typed text with lipgloss.
type Painter struct {
	markup bool
	style  lipgloss.Style
}

// NewPainter creates a painter whose styles target r.
func NewPainter(r *lipgloss.Renderer, opts Options) Painter {
	style := r.NewStyle().Bold(opts.Bold)
	if opts.Foreground != "" {
		style = style.Foreground(lipgloss.Color(opts.Foreground))
	}
	return Painter{markup: opts.Markup, style: style}
}

// Width returns the number of visible characters in raw.
func (p Painter) Width(raw string) int {
	return len([]rune(renderer.SpansText(p.spans(raw))))
}

// Render styles raw. Faded text is rendered faint.
func (p Painter) Render(raw string, faded bool) string {
	var b strings.Builder
	for _, span := range p.spans(raw) {
		// Lines are rendered one at a time so lipgloss does not pad them.
		for i, line := range strings.Split(span.Text, "\n") {
			if i > 0 {
				b.WriteString("\n")
			}
			if line != "" {
				b.WriteString(p.spanStyle(span.Attrs, faded).Render(line))
			}
		}
	}
	return b.String()
}

func (p Painter) spans(raw string) []renderer.Span {
	if p.markup {
		return renderer.ParseMarkup(raw)
	}
	return renderer.PlainSpans(raw)
}

func (p Painter) spanStyle(attrs core.Attribute, faded bool) lipgloss.Style {
	style := p.style
	if attrs.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if attrs.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if attrs.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if faded {
		style = style.Faint(true)
	}
	return style
}
