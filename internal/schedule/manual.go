package schedule

import "time"

// Manual is a deterministic Scheduler driven by a virtual clock.
// Callbacks run synchronously inside Advance and RunUntilIdle.
// It is not safe for concurrent use.
type Manual struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m      *Manual
	at     time.Duration
	seq    uint64
	fn     func()
	active bool
}

// NewManual creates a virtual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, fn: fn, active: true}
	m.timers = append(m.timers, t)
	return t
}

// Stop cancels the timer.
func (t *manualTimer) Stop() bool {
	if !t.active {
		return false
	}
	t.active = false
	t.m.remove(t)
	return true
}

func (m *Manual) remove(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of timers that have not fired or stopped.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// Next returns the due time of the earliest pending timer.
func (m *Manual) Next() (time.Duration, bool) {
	t := m.earliest()
	if t == nil {
		return 0, false
	}
	return t.at, true
}

func (m *Manual) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) fire(t *manualTimer) {
	m.now = t.at
	t.active = false
	m.remove(t)
	t.fn()
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including timers scheduled by callbacks within the window. It returns
// the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for {
		t := m.earliest()
		if t == nil || t.at > target {
			break
		}
		m.fire(t)
		fired++
	}
	m.now = target
	return fired
}

// Step fires the earliest pending timer, jumping the clock to its due
// time. It reports false when nothing is pending.
func (m *Manual) Step() bool {
	t := m.earliest()
	if t == nil {
		return false
	}
	m.fire(t)
	return true
}

// RunUntilIdle fires timers in order until none are pending or limit
// callbacks have run. A limit of zero or less means no limit.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for limit <= 0 || fired < limit {
		if !m.Step() {
			break
		}
		fired++
	}
	return fired
}

var _ Scheduler = (*Manual)(nil)
