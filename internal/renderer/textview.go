package renderer

import (
	"sync"
	"time"

	"github.com/dshills/typewriter/internal/renderer/backend"
	"github.com/dshills/typewriter/internal/renderer/core"
	"github.com/dshills/typewriter/internal/renderer/cursor"
	"github.com/dshills/typewriter/internal/typing"
)

// TextViewOptions configures a TextView.
type TextViewOptions struct {
	// Rect is the region the text is drawn in. An empty rect uses the
	// whole screen.
	Rect core.Rect

	// Style is the base text style.
	Style core.Style

	// Markup interprets the text as html.
	Markup bool

	// Cursor configures the cursor glyph and blink rate.
	Cursor cursor.Config

	// Animate lets the view blink the cursor and blend the fade itself.
	// Without it the cursor stays solid and a fade dims the text at once.
	Animate bool

	// FadeColor is the color faded text blends towards.
	FadeColor core.Color

	// FadeDuration is how long the blend takes.
	FadeDuration time.Duration
}

// DefaultTextViewOptions returns options for a full-screen view.
func DefaultTextViewOptions() TextViewOptions {
	return TextViewOptions{
		Style:        core.DefaultStyle().WithForeground(core.ColorWhite),
		Markup:       true,
		Cursor:       cursor.DefaultConfig(),
		Animate:      true,
		FadeColor:    core.ColorBlack,
		FadeDuration: typing.DefaultFadeOutDelay,
	}
}

// TextView draws typed text into a rectangle of a backend. It wraps long
// lines and scrolls to keep the cursor in view.
type TextView struct {
	mu      sync.Mutex
	backend backend.Backend
	opts    TextViewOptions
	cursor  *cursor.Renderer
	now     func() time.Time

	raw   string
	spans []Span

	fading    bool
	fadeStart time.Time
	fadeLevel float64
}

// NewTextView creates a view on b.
func NewTextView(b backend.Backend, opts TextViewOptions) *TextView {
	return &TextView{
		backend: b,
		opts:    opts,
		cursor:  cursor.New(opts.Cursor),
		now:     time.Now,
	}
}

// SetClock replaces the time source used for animation.
func (v *TextView) SetClock(now func() time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if now != nil {
		v.now = now
	}
}

// SetText implements typing.Sink.
func (v *TextView) SetText(raw string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.raw = raw
	if v.opts.Markup {
		v.spans = ParseMarkup(raw)
	} else {
		v.spans = PlainSpans(raw)
	}
	v.draw()
}

// SetCursorVisible implements typing.Sink.
func (v *TextView) SetCursorVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cursor.SetShown(visible)
	v.draw()
}

// SetCursorBlink implements typing.Sink.
func (v *TextView) SetCursorBlink(blinking bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cursor.SetBlinking(blinking && v.opts.Animate, v.now())
	v.draw()
}

// SetFadeClass implements typing.Sink.
func (v *TextView) SetFadeClass(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.fading = on
	v.fadeStart = v.now()
	v.fadeLevel = 0
	if on && !v.opts.Animate {
		v.fadeLevel = 1
	}
	v.draw()
}

// Tick advances the blink and fade animations and redraws if anything
// changed. It reports whether a redraw happened.
func (v *TextView) Tick(now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	changed := v.cursor.Update(now)

	if v.fading && v.opts.Animate && v.fadeLevel < 1 {
		level := 1.0
		if v.opts.FadeDuration > 0 {
			level = min(1, float64(now.Sub(v.fadeStart))/float64(v.opts.FadeDuration))
		}
		if level != v.fadeLevel {
			v.fadeLevel = level
			changed = true
		}
	}

	if changed {
		v.draw()
	}
	return changed
}

// Resize moves the view to rect.
func (v *TextView) Resize(rect core.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.opts.Rect = rect
	v.backend.Clear()
	v.draw()
}

// Redraw draws the view again.
func (v *TextView) Redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draw()
}

// Text returns the raw text last set.
func (v *TextView) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

// FadeLevel returns the fade progress in [0, 1].
func (v *TextView) FadeLevel() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.fading {
		return 0
	}
	return v.fadeLevel
}

func (v *TextView) rect() core.Rect {
	r := v.opts.Rect
	if r.IsEmpty() {
		w, h := v.backend.Size()
		r = core.Rect{Width: w, Height: h}
	}
	return r
}

func (v *TextView) textStyle(attrs core.Attribute) core.Style {
	style := v.opts.Style.WithAttributes(attrs)
	if !v.fading || v.fadeLevel <= 0 {
		return style
	}
	if style.Foreground.IsDefault() {
		return style.WithAttributes(core.AttrDim)
	}
	return style.WithForeground(style.Foreground.Blend(v.opts.FadeColor, v.fadeLevel))
}

// layout wraps the spans into lines of cells no wider than width.
func (v *TextView) layout(width int) [][]core.Cell {
	lines := [][]core.Cell{nil}
	x := 0
	for _, span := range v.spans {
		style := v.textStyle(span.Attrs)
		for _, cl := range core.Clusters(span.Text) {
			if cl.Text == "\n" || cl.Text == "\r\n" {
				lines = append(lines, nil)
				x = 0
				continue
			}
			if cl.Width == 0 {
				continue
			}
			if x+cl.Width > width && x > 0 {
				lines = append(lines, nil)
				x = 0
			}
			n := len(lines) - 1
			lines[n] = append(lines[n], core.CellFromCluster(cl, style))
			x += cl.Width
		}
	}
	return lines
}

func lineWidth(cells []core.Cell) int {
	w := 0
	for _, c := range cells {
		w += c.Width
	}
	return w
}

func (v *TextView) draw() {
	r := v.rect()
	if r.IsEmpty() {
		return
	}

	blank := core.EmptyCell()
	blank.Style = v.opts.Style
	v.backend.Fill(r, blank)

	lines := v.layout(r.Width)

	var cursorCells []core.Cell
	if v.cursor.IsVisible() {
		cursorCells = v.cursor.Cells(blank)
		last := len(lines) - 1
		if lineWidth(lines[last])+lineWidth(cursorCells) > r.Width && len(lines[last]) > 0 {
			lines = append(lines, nil)
		}
	}

	// Scroll so the last line stays visible.
	if len(lines) > r.Height {
		lines = lines[len(lines)-r.Height:]
	}

	for row, cells := range lines {
		x := r.X
		for _, c := range cells {
			v.backend.SetCell(x, r.Y+row, c)
			x += c.Width
		}
		if row == len(lines)-1 {
			for _, c := range cursorCells {
				if x >= r.X+r.Width {
					break
				}
				v.backend.SetCell(x, r.Y+row, c)
				x += max(c.Width, 1)
			}
		}
	}

	v.backend.Show()
}

var _ typing.Sink = (*TextView)(nil)
