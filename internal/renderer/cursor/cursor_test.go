package cursor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/typewriter/internal/renderer/core"
)

func TestStyleString(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleGlyph, "glyph"},
		{StyleBlock, "block"},
		{StyleUnderline, "underline"},
		{Style(99), "glyph"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.style.String())
			if tt.style < 3 {
				assert.Equal(t, tt.style, StyleFromString(tt.want))
			}
		})
	}
	assert.Equal(t, StyleUnderline, StyleFromString("underscore"))
}

func TestNewDefaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, DefaultBlinkRate, r.Config().BlinkRate)
	assert.Equal(t, "|", r.Config().Char)
	assert.False(t, r.Shown())
	assert.False(t, r.IsVisible())
}

func TestBlink(t *testing.T) {
	r := New(DefaultConfig())
	r.SetShown(true)
	start := time.Unix(0, 0)

	r.SetBlinking(true, start)
	assert.True(t, r.IsVisible())

	assert.False(t, r.Update(start.Add(100*time.Millisecond)))
	assert.True(t, r.Update(start.Add(500*time.Millisecond)))
	assert.False(t, r.IsVisible())

	assert.True(t, r.Update(start.Add(time.Second)))
	assert.True(t, r.IsVisible())

	assert.True(t, r.Update(start.Add(1500*time.Millisecond)))
	require.False(t, r.IsVisible())

	r.SetBlinking(false, start.Add(1600*time.Millisecond))
	assert.True(t, r.IsVisible(), "stopping the blink leaves the cursor solid")
	assert.False(t, r.Update(start.Add(5*time.Second)))
}

func TestHiddenCursorNeverVisible(t *testing.T) {
	r := New(DefaultConfig())
	r.SetBlinking(false, time.Now())
	assert.False(t, r.IsVisible())
}

func TestCells(t *testing.T) {
	base := core.CellFromCluster(core.Cluster{Text: "a", Width: 1}, core.DefaultStyle())

	glyph := New(Config{Char: "_", Color: core.ColorWhite})
	cells := glyph.Cells(base)
	require.Len(t, cells, 1)
	assert.Equal(t, '_', cells[0].Rune)
	assert.Equal(t, core.ColorWhite, cells[0].Style.Foreground)

	block := New(Config{Style: StyleBlock})
	cells = block.Cells(base)
	require.Len(t, cells, 1)
	assert.Equal(t, 'a', cells[0].Rune)
	assert.True(t, cells[0].Style.Attributes.Has(core.AttrReverse))

	under := New(Config{Style: StyleUnderline})
	assert.True(t, under.Cells(base)[0].Style.Attributes.Has(core.AttrUnderline))
}
