package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/typewriter/internal/renderer/backend"
	"github.com/dshills/typewriter/internal/renderer/core"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newView(t *testing.T, w, h int, mutate func(*TextViewOptions)) (*TextView, *backend.NullBackend, *fakeClock) {
	t.Helper()
	b := backend.NewNullBackend(w, h)
	require.NoError(t, b.Init())

	opts := DefaultTextViewOptions()
	if mutate != nil {
		mutate(&opts)
	}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	v := NewTextView(b, opts)
	v.SetClock(clock.Now)
	return v, b, clock
}

func TestTextViewText(t *testing.T) {
	v, b, _ := newView(t, 20, 2, nil)

	v.SetText("hello")
	assert.Equal(t, "hello", b.Row(0))
	assert.Equal(t, "hello", v.Text())

	v.SetCursorVisible(true)
	assert.Equal(t, "hello|", b.Row(0))

	v.SetText("")
	assert.Equal(t, "|", b.Row(0))

	v.SetCursorVisible(false)
	assert.Equal(t, "", b.Row(0))
	assert.Positive(t, b.Shows())
}

func TestTextViewMarkup(t *testing.T) {
	v, b, _ := newView(t, 20, 1, nil)

	v.SetText("a<b>b</b>")
	assert.Equal(t, "ab", b.Row(0))
	assert.False(t, b.GetCell(0, 0).Style.Attributes.Has(core.AttrBold))
	assert.True(t, b.GetCell(1, 0).Style.Attributes.Has(core.AttrBold))
}

func TestTextViewPlain(t *testing.T) {
	v, b, _ := newView(t, 20, 1, func(o *TextViewOptions) { o.Markup = false })

	v.SetText("<b>x")
	assert.Equal(t, "<b>x", b.Row(0))
}

func TestTextViewWrapAndScroll(t *testing.T) {
	v, b, _ := newView(t, 5, 2, nil)

	v.SetText("abcdefgh")
	assert.Equal(t, "abcde", b.Row(0))
	assert.Equal(t, "fgh", b.Row(1))

	v.SetText("one<br>two<br>six")
	assert.Equal(t, "two", b.Row(0))
	assert.Equal(t, "six", b.Row(1))

	v.SetCursorVisible(true)
	v.SetText("abcde")
	assert.Equal(t, "abcde", b.Row(0))
	assert.Equal(t, "|", b.Row(1), "cursor wraps when the line is full")
}

func TestTextViewRect(t *testing.T) {
	v, b, _ := newView(t, 10, 3, func(o *TextViewOptions) {
		o.Rect = core.Rect{X: 2, Y: 1, Width: 3, Height: 1}
	})

	v.SetText("abcdef")
	assert.Equal(t, "", b.Row(0))
	assert.Equal(t, "  def", b.Row(1))

	v.Resize(core.Rect{X: 0, Y: 0, Width: 10, Height: 1})
	assert.Equal(t, "abcdef", b.Row(0))
	assert.Equal(t, "", b.Row(1))
}

func TestTextViewBlink(t *testing.T) {
	v, b, clock := newView(t, 10, 1, nil)

	v.SetText("hi")
	v.SetCursorVisible(true)
	v.SetCursorBlink(true)
	assert.Equal(t, "hi|", b.Row(0))

	assert.False(t, v.Tick(clock.Add(100*time.Millisecond)))
	assert.True(t, v.Tick(clock.Add(400*time.Millisecond)))
	assert.Equal(t, "hi", b.Row(0))

	assert.True(t, v.Tick(clock.Add(500*time.Millisecond)))
	assert.Equal(t, "hi|", b.Row(0))

	v.SetCursorBlink(false)
	assert.False(t, v.Tick(clock.Add(5*time.Second)))
	assert.Equal(t, "hi|", b.Row(0))
}

func TestTextViewNoAnimation(t *testing.T) {
	v, b, clock := newView(t, 10, 1, func(o *TextViewOptions) { o.Animate = false })

	v.SetText("hi")
	v.SetCursorVisible(true)
	v.SetCursorBlink(true)
	assert.False(t, v.Tick(clock.Add(time.Second)))
	assert.Equal(t, "hi|", b.Row(0))

	v.SetFadeClass(true)
	assert.Equal(t, 1.0, v.FadeLevel())
}

func TestTextViewFade(t *testing.T) {
	v, b, clock := newView(t, 10, 1, nil)

	v.SetText("x")
	require.Equal(t, core.ColorWhite, b.GetCell(0, 0).Style.Foreground)

	v.SetFadeClass(true)
	assert.Zero(t, v.FadeLevel())

	assert.True(t, v.Tick(clock.Add(250*time.Millisecond)))
	assert.InDelta(t, 0.5, v.FadeLevel(), 0.001)
	mid := b.GetCell(0, 0).Style.Foreground
	assert.Less(t, mid.R, uint8(255))
	assert.Greater(t, mid.R, uint8(0))

	assert.True(t, v.Tick(clock.Add(250*time.Millisecond)))
	assert.Equal(t, 1.0, v.FadeLevel())
	assert.Equal(t, core.ColorBlack, b.GetCell(0, 0).Style.Foreground)
	assert.False(t, v.Tick(clock.Add(time.Second)))

	v.SetFadeClass(false)
	assert.Zero(t, v.FadeLevel())
	assert.Equal(t, core.ColorWhite, b.GetCell(0, 0).Style.Foreground)
}

func TestTextViewFadeDefaultColor(t *testing.T) {
	v, b, _ := newView(t, 10, 1, func(o *TextViewOptions) {
		o.Style = core.DefaultStyle()
		o.Animate = false
	})

	v.SetText("x")
	v.SetFadeClass(true)
	assert.True(t, b.GetCell(0, 0).Style.Attributes.Has(core.AttrDim))
}
