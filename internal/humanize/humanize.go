// Package humanize turns configured typing speeds into per-character delays.
//
// A speed is either a fixed number of milliseconds ("50") or an inclusive
// range ("30~80"). Fixed speeds are returned unchanged; ranges yield a
// uniformly random whole number of milliseconds within the bounds.
package humanize

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// RangeSeparator separates the bounds of a randomised speed.
const RangeSeparator = "~"

// ErrInvalidSpeed is returned when a speed cannot be parsed.
var ErrInvalidSpeed = errors.New("invalid speed")

// Speed is a per-character delay, optionally randomised within [Min, Max].
type Speed struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a speed without randomisation.
func Fixed(d time.Duration) Speed {
	return Speed{Min: d, Max: d}
}

// Range returns a randomised speed. Reversed bounds are swapped.
func Range(lo, hi time.Duration) Speed {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Speed{Min: lo, Max: hi}
}

// Millis returns a fixed speed of ms milliseconds.
func Millis(ms int) Speed {
	return Fixed(time.Duration(ms) * time.Millisecond)
}

// IsRange reports whether the speed is randomised.
func (s Speed) IsRange() bool {
	return s.Max > s.Min
}

// IsNegative reports whether either bound is below zero.
func (s Speed) IsNegative() bool {
	return s.Min < 0 || s.Max < 0
}

// String renders the speed in the syntax accepted by ParseSpeed.
func (s Speed) String() string {
	if s.IsRange() {
		return fmt.Sprintf("%d%s%d", s.Min.Milliseconds(), RangeSeparator, s.Max.Milliseconds())
	}
	return strconv.FormatInt(s.Min.Milliseconds(), 10)
}

// ParseSpeed parses "50", "50ms", "1.5s" or "30~80".
// Bare numbers are milliseconds.
func ParseSpeed(s string) (Speed, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Speed{}, nil
	}

	lo, hi, isRange := strings.Cut(s, RangeSeparator)
	first, err := parseBound(lo)
	if err != nil {
		return Speed{}, fmt.Errorf("%w %q: %v", ErrInvalidSpeed, s, err)
	}
	if !isRange {
		return Fixed(first), nil
	}

	second, err := parseBound(hi)
	if err != nil {
		return Speed{}, fmt.Errorf("%w %q: %v", ErrInvalidSpeed, s, err)
	}
	return Range(first, second), nil
}

func parseBound(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty bound")
	}

	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(n) * time.Millisecond
	} else {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return 0, perr
		}
		d = parsed
	}

	if d < 0 {
		return 0, errors.New("negative bound")
	}
	return d, nil
}

// Humanizer produces delays for speeds. It is not safe for concurrent use;
// the typing engine owns one per instance.
type Humanizer struct {
	rng *rand.Rand
}

// New creates a humanizer drawing from src. A nil src uses a
// randomly seeded PCG source.
func New(src rand.Source) *Humanizer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Humanizer{rng: rand.New(src)}
}

// Delay returns the delay before the next character at the given speed.
func (h *Humanizer) Delay(s Speed) time.Duration {
	if !s.IsRange() {
		return s.Min
	}

	lo := s.Min.Milliseconds()
	hi := s.Max.Milliseconds()
	if hi <= lo {
		return s.Min
	}
	return time.Duration(lo+h.rng.Int64N(hi-lo+1)) * time.Millisecond
}
