package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/typewriter/internal/config"
	"github.com/dshills/typewriter/internal/schedule"
	"github.com/dshills/typewriter/internal/typing"
)

func newTestTea(t *testing.T, mutate func(*config.Config)) (*Application, *teaModel, *schedule.Manual) {
	t.Helper()
	cfg := testConfig(t, "hi")
	cfg.UI.Mode = config.UIBubbleTea
	if mutate != nil {
		mutate(cfg)
	}

	a, err := New(cfg, WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	sink := &teaSink{}
	focus := newFocusBinder()
	m := newTeaModel(a, sink, focus)
	sched := schedule.NewManual()
	require.NoError(t, a.startEngine(engineEnv{sink: sink, sched: sched, focus: focus, quit: m.requestQuit}))
	return a, m, sched
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTeaViewTypesText(t *testing.T) {
	_, m, sched := newTestTea(t, nil)

	sched.RunUntilIdle(100)
	assert.Equal(t, "hi", m.sink.text)
	assert.Equal(t, "hi|", m.View())

	m.sink.SetFadeClass(true)
	assert.Contains(t, m.View(), "hi")
}

func TestTeaMarkup(t *testing.T) {
	_, m, _ := newTestTea(t, func(c *config.Config) { c.Typing.ShowCursor = false })

	m.sink.SetText("<b>bold</b> and <i>more</i>")
	assert.Equal(t, "bold and more", m.View())
}

func TestTeaBlink(t *testing.T) {
	_, m, _ := newTestTea(t, nil)
	m.sink.SetText("x")
	m.sink.SetCursorBlink(true)

	_, cmd := m.Update(blinkMsg{})
	assert.NotNil(t, cmd, "blinking re-arms the tick")
	assert.Equal(t, "x", m.View())

	m.Update(blinkMsg{})
	assert.Equal(t, "x|", m.View())

	m.Update(blinkMsg{})
	m.sink.SetCursorBlink(false)
	m.Update(blinkMsg{})
	assert.Equal(t, "x|", m.View(), "a solid cursor is always drawn")
}

func TestTeaKeys(t *testing.T) {
	a, m, _ := newTestTea(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, typing.StateStopped, a.typed.State())

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.NotEqual(t, typing.StateStopped, a.typed.State())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, 0, a.typed.StrPos())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, isQuit(cmd))
}

func TestTeaRunMsgAndQuit(t *testing.T) {
	_, m, _ := newTestTea(t, nil)

	ran := false
	_, cmd := m.Update(runMsg(func() { ran = true }))
	assert.True(t, ran)
	assert.False(t, isQuit(cmd))

	_, cmd = m.Update(runMsg(m.requestQuit))
	assert.True(t, isQuit(cmd))
}

func TestTeaExitOnComplete(t *testing.T) {
	_, m, sched := newTestTea(t, func(c *config.Config) { c.UI.ExitOnComplete = true })

	sched.RunUntilIdle(100)
	assert.True(t, m.quitting)
}

func TestTeaRestartCancelsExit(t *testing.T) {
	a, m, sched := newTestTea(t, func(c *config.Config) {
		c.UI.ExitOnComplete = true
		c.Typing.BackDelay = time.Second
		c.Typing.StartDelay = 2 * time.Second
	})

	for a.typed.State() != typing.StateComplete {
		require.True(t, sched.Step())
	}
	require.False(t, m.quitting)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	sched.Advance(time.Second)
	assert.False(t, m.quitting, "restart drops the pending exit")

	sched.RunUntilIdle(100)
	assert.Equal(t, typing.StateComplete, a.typed.State())
	assert.True(t, m.quitting)
}

func TestTeaFocus(t *testing.T) {
	a, m, _ := newTestTea(t, func(c *config.Config) { c.Typing.BindInputFocusEvents = true })

	m.Update(tea.FocusMsg{})
	assert.Equal(t, typing.StateStopped, a.typed.State())

	m.Update(tea.BlurMsg{})
	assert.NotEqual(t, typing.StateStopped, a.typed.State())
}

func TestTeaWindowWidth(t *testing.T) {
	_, m, _ := newTestTea(t, func(c *config.Config) { c.Typing.ShowCursor = false })
	m.sink.SetText("abcdef")

	m.Update(tea.WindowSizeMsg{Width: 3, Height: 1})
	assert.Equal(t, "abc", m.View())
}
