// Package sound plays typewriter key clicks while text is typed.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the playback sample rate.
const SampleRate = beep.SampleRate(44100)

// ClickKind selects the click sound.
type ClickKind int

const (
	// ClickType is played when a character is typed.
	ClickType ClickKind = iota
	// ClickErase is played when a character is removed.
	ClickErase
)

// String returns the kind name.
func (k ClickKind) String() string {
	if k == ClickErase {
		return "erase"
	}
	return "type"
}

// ClickDuration is the length of one click.
const ClickDuration = 25 * time.Millisecond

// ClickGenerator streams a short decaying noise burst over a low tone.
type ClickGenerator struct {
	sr    beep.SampleRate
	pos   int
	total int
	tone  float64
	decay float64
	seed  uint32
}

// NewClickGenerator creates a click of the given kind.
func NewClickGenerator(sr beep.SampleRate, kind ClickKind) *ClickGenerator {
	g := &ClickGenerator{
		sr:    sr,
		total: sr.N(ClickDuration),
		tone:  1800,
		decay: 300,
		seed:  0x2545f491,
	}
	if kind == ClickErase {
		g.tone = 900
		g.decay = 200
	}
	return g
}

func (g *ClickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * g.decay)

		// xorshift noise
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		sample := envelope * (0.35*noise + 0.25*math.Sin(2*math.Pi*g.tone*t))
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ClickGenerator) Err() error {
	return nil
}

// Len returns the click length in samples.
func (g *ClickGenerator) Len() int {
	return g.total
}
