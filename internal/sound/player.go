package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// Clicker plays clicks.
type Clicker interface {
	Click(kind ClickKind)
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithVolume sets the volume in beep's log2 scale. 0 is unchanged, -1
// halves the amplitude.
func WithVolume(v float64) PlayerOption {
	return func(p *Player) {
		p.volume = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) PlayerOption {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Player mixes clicks into the speaker. The speaker is initialised on the
// first click; when no audio device is available the player disables
// itself and every later click is a no-op.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	logger *zap.Logger

	initialized bool
	disabled    bool
	played      int

	initSpeaker func(sr beep.SampleRate, bufferSize int) error
	play        func(s beep.Streamer)
	lock        func()
	unlock      func()
	closeFn     func()
}

// NewPlayer creates a player. No audio device is opened until Click.
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		mixer:       &beep.Mixer{},
		logger:      zap.NewNop(),
		initSpeaker: speaker.Init,
		play:        func(s beep.Streamer) { speaker.Play(s) },
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
		closeFn:     speaker.Close,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) ensureInit() bool {
	if p.disabled {
		return false
	}
	if p.initialized {
		return true
	}
	if err := p.initSpeaker(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		p.disabled = true
		p.logger.Warn("audio unavailable, clicks disabled", zap.Error(err))
		return false
	}
	p.play(p.mixer)
	p.initialized = true
	return true
}

// Click plays one click.
func (p *Player) Click(kind ClickKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ensureInit() {
		return
	}

	var s beep.Streamer = NewClickGenerator(SampleRate, kind)
	if p.volume != 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: p.volume}
	}

	p.lock()
	p.mixer.Add(s)
	p.unlock()
	p.played++
}

// Enabled reports whether clicks can be heard. It is true until an
// initialisation attempt fails.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disabled
}

// Played returns the number of clicks mixed.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close stops playback and releases the audio device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
	p.closeFn()
	p.initialized = false
	p.disabled = true
}
