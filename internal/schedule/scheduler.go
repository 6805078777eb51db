package schedule

import (
	"sync/atomic"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler creates timers whose callbacks run on the owner goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// PostFunc runs fn on the owner goroutine at some later point. It reports
// false if fn will never run.
type PostFunc func(fn func()) bool

// Posted is a Scheduler backed by wall-clock timers whose callbacks are
// handed to a PostFunc.
type Posted struct {
	post PostFunc
}

// NewPosted creates a scheduler that delivers callbacks through post.
func NewPosted(post PostFunc) *Posted {
	return &Posted{post: post}
}

// AfterFunc schedules fn to run on the owner goroutine after d.
func (p *Posted) AfterFunc(d time.Duration, fn func()) Timer {
	t := &postedTimer{}
	t.timer = time.AfterFunc(d, func() {
		p.post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type postedTimer struct {
	timer *time.Timer
	state atomic.Int32
}

// Stop cancels the timer. Called on the owner goroutine it guarantees the
// callback does not run, even if the wall-clock timer already expired and
// the callback is queued.
func (t *postedTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
