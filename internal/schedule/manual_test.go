package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresInTimeOrder(t *testing.T) {
	m := NewManual()
	var got []string

	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a2") })

	assert.Equal(t, 4, m.Pending())
	fired := m.Advance(25 * time.Millisecond)

	assert.Equal(t, 3, fired)
	assert.Equal(t, []string{"a", "a2", "b"}, got)
	assert.Equal(t, 25*time.Millisecond, m.Now())
	assert.Equal(t, 1, m.Pending())
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	ran := false
	timer := m.AfterFunc(time.Millisecond, func() { ran = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports false")
	m.Advance(time.Second)
	assert.False(t, ran)
	assert.Zero(t, m.Pending())
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual()
	timer := m.AfterFunc(0, func() {})
	require.True(t, m.Step())
	assert.False(t, timer.Stop())
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)

	fired := m.Advance(35 * time.Millisecond)
	assert.Equal(t, 3, fired)
	assert.Equal(t, 3, count)

	fired = m.RunUntilIdle(0)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 50*time.Millisecond, m.Now())
}

func TestManualRunUntilIdleLimit(t *testing.T) {
	m := NewManual()
	var forever func()
	forever = func() { m.AfterFunc(time.Millisecond, forever) }
	m.AfterFunc(0, forever)

	assert.Equal(t, 10, m.RunUntilIdle(10))
	assert.Equal(t, 1, m.Pending())
}

func TestManualNext(t *testing.T) {
	m := NewManual()
	_, ok := m.Next()
	assert.False(t, ok)

	m.AfterFunc(7*time.Millisecond, func() {})
	at, ok := m.Next()
	assert.True(t, ok)
	assert.Equal(t, 7*time.Millisecond, at)
}

func TestManualNegativeDelay(t *testing.T) {
	m := NewManual()
	ran := false
	m.AfterFunc(-time.Second, func() { ran = true })
	m.Advance(0)
	assert.True(t, ran)
}
