// Package cursor provides the typing cursor with blink animation.
package cursor

import (
	"sync"
	"time"

	"github.com/dshills/typewriter/internal/renderer/core"
)

// Style represents the visual appearance of the cursor.
type Style uint8

const (
	// StyleGlyph draws the cursor character after the text.
	StyleGlyph Style = iota
	// StyleBlock reverses the cell after the text.
	StyleBlock
	// StyleUnderline underlines the cell after the text.
	StyleUnderline
)

// DefaultBlinkRate is the interval at which a blinking cursor toggles.
const DefaultBlinkRate = 500 * time.Millisecond

// Config holds cursor configuration.
type Config struct {
	// Style is the visual appearance of the cursor.
	Style Style

	// Char is the glyph drawn by StyleGlyph.
	Char string

	// BlinkRate is the blink interval (cursor toggles on/off at this rate).
	BlinkRate time.Duration

	// Color is the glyph color.
	Color core.Color
}

// DefaultConfig returns the default cursor configuration.
func DefaultConfig() Config {
	return Config{
		Style:     StyleGlyph,
		Char:      "|",
		BlinkRate: DefaultBlinkRate,
		Color:     core.ColorDefault,
	}
}

// Renderer tracks cursor visibility and blink phase.
type Renderer struct {
	mu sync.RWMutex

	config Config

	shown    bool
	blinking bool

	// Blink state
	blinkVisible bool
	lastBlink    time.Time
}

// New creates a cursor renderer. The cursor starts hidden.
func New(config Config) *Renderer {
	if config.BlinkRate <= 0 {
		config.BlinkRate = DefaultBlinkRate
	}
	if config.Char == "" {
		config.Char = DefaultConfig().Char
	}
	return &Renderer{
		config:       config,
		blinkVisible: true,
	}
}

// Config returns the current configuration.
func (r *Renderer) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// SetShown shows or hides the cursor.
func (r *Renderer) SetShown(shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = shown
}

// Shown reports whether the cursor is displayed at all.
func (r *Renderer) Shown() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shown
}

// SetBlinking starts or stops blinking. Stopping leaves the cursor solid.
func (r *Renderer) SetBlinking(blinking bool, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blinking = blinking
	r.blinkVisible = true
	r.lastBlink = now
}

// Blinking reports whether the cursor blinks.
func (r *Renderer) Blinking() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blinking
}

// Update advances blink animation.
// Returns true if the cursor visibility changed.
func (r *Renderer) Update(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.blinking {
		if !r.blinkVisible {
			r.blinkVisible = true
			return true
		}
		return false
	}

	if now.Sub(r.lastBlink) >= r.config.BlinkRate {
		r.blinkVisible = !r.blinkVisible
		r.lastBlink = now
		return true
	}

	return false
}

// IsVisible returns whether the cursor should be drawn now.
func (r *Renderer) IsVisible() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shown && r.blinkVisible
}

// Cells returns the cells to draw for the cursor. base is the cell the
// cursor sits on, used by the block and underline styles.
func (r *Renderer) Cells(base core.Cell) []core.Cell {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch r.config.Style {
	case StyleBlock:
		base.Style = base.Style.WithAttributes(core.AttrReverse)
		return []core.Cell{base}
	case StyleUnderline:
		base.Style = base.Style.WithAttributes(core.AttrUnderline)
		return []core.Cell{base}
	}

	style := core.DefaultStyle().WithForeground(r.config.Color)
	var cells []core.Cell
	for _, cl := range core.Clusters(r.config.Char) {
		cells = append(cells, core.CellFromCluster(cl, style))
	}
	return cells
}

// StyleFromString converts a string name to a cursor style.
func StyleFromString(s string) Style {
	switch s {
	case "block":
		return StyleBlock
	case "underline", "underscore":
		return StyleUnderline
	default:
		return StyleGlyph
	}
}

// String returns the string representation of a cursor style.
func (s Style) String() string {
	switch s {
	case StyleBlock:
		return "block"
	case StyleUnderline:
		return "underline"
	default:
		return "glyph"
	}
}
