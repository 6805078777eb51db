// Package sequence tracks which string is typed next.
//
// A Sequencer owns the configured strings, the order in which a pass
// visits them (optionally shuffled), the position within the pass and the
// number of completed passes. It never touches timers or rendering.
package sequence

import (
	"errors"
	"math/rand/v2"
)

// ErrEmpty is returned when a sequencer is created without strings.
var ErrEmpty = errors.New("no strings to type")

// Step is the outcome of advancing past the current string.
type Step int

const (
	// StepNext moved to the next string of the same pass.
	StepNext Step = iota
	// StepNewPass finished a pass and started another one.
	StepNewPass
	// StepExhausted finished the final pass.
	StepExhausted
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepNext:
		return "next"
	case StepNewPass:
		return "new-pass"
	case StepExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Config controls pass ordering and repetition.
type Config struct {
	// Shuffle visits the strings in a fresh random order every pass.
	Shuffle bool
	// Loop repeats passes.
	Loop bool
	// LoopCount limits the number of passes when looping. Zero or less
	// means unlimited.
	LoopCount int
}

// Sequencer serves strings in pass order. It is not safe for concurrent
// use.
type Sequencer struct {
	strings []string
	order   []int
	config  Config
	rng     *rand.Rand

	pos       int
	curLoop   int
	exhausted bool
}

// New creates a sequencer over a copy of strs. A nil src uses a randomly
// seeded PCG source.
func New(strs []string, config Config, src rand.Source) (*Sequencer, error) {
	if len(strs) == 0 {
		return nil, ErrEmpty
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	s := &Sequencer{
		strings: append([]string(nil), strs...),
		order:   make([]int, len(strs)),
		config:  config,
		rng:     rand.New(src),
	}
	s.identity()
	return s, nil
}

// Len returns the number of strings in a pass.
func (s *Sequencer) Len() int {
	return len(s.strings)
}

// BeginPass materialises the visiting order for a new pass, reshuffling
// when shuffle is enabled. The position is not changed.
func (s *Sequencer) BeginPass() {
	s.identity()
	if !s.config.Shuffle {
		return
	}
	// Fisher-Yates.
	for i := len(s.order) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
}

func (s *Sequencer) identity() {
	for i := range s.order {
		s.order[i] = i
	}
}

// Index returns the position within the current pass.
func (s *Sequencer) Index() int {
	return s.pos
}

// StringIndex returns the index into the configured strings of the
// current string.
func (s *Sequencer) StringIndex() int {
	return s.order[s.pos]
}

// Current returns the string at the current position.
func (s *Sequencer) Current() string {
	return s.strings[s.order[s.pos]]
}

// At returns the configured string with index i.
func (s *Sequencer) At(i int) string {
	return s.strings[i]
}

// Peek returns the string after the current one within the same pass.
// It reports false at the end of a pass.
func (s *Sequencer) Peek() (string, bool) {
	if s.pos+1 >= len(s.order) {
		return "", false
	}
	return s.strings[s.order[s.pos+1]], true
}

// IsLastInPass reports whether the current string ends the pass.
func (s *Sequencer) IsLastInPass() bool {
	return s.pos == len(s.order)-1
}

// Order returns a copy of the current pass order.
func (s *Sequencer) Order() []int {
	return append([]int(nil), s.order...)
}

// CurLoop returns the number of completed passes.
func (s *Sequencer) CurLoop() int {
	return s.curLoop
}

// Exhausted reports whether the final pass has finished.
func (s *Sequencer) Exhausted() bool {
	return s.exhausted
}

// Advance moves past the current string.
//
// Within a pass it moves to the next string. At the end of a pass the
// finished pass is counted; if looping permits another pass the position
// returns to 0 and a new order is materialised, otherwise the sequencer
// is exhausted and stays on the last string.
func (s *Sequencer) Advance() Step {
	if s.exhausted {
		return StepExhausted
	}
	if !s.IsLastInPass() {
		s.pos++
		return StepNext
	}

	if !s.config.Loop {
		s.exhausted = true
		return StepExhausted
	}

	s.curLoop++
	if s.config.LoopCount > 0 && s.curLoop >= s.config.LoopCount {
		s.exhausted = true
		return StepExhausted
	}

	s.pos = 0
	s.BeginPass()
	return StepNewPass
}

// Reset returns to the start of the first pass with no completed loops.
// The next BeginPass materialises a fresh order.
func (s *Sequencer) Reset() {
	s.pos = 0
	s.curLoop = 0
	s.exhausted = false
	s.identity()
}
