package app

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/typewriter/internal/renderer/stream"
	"github.com/dshills/typewriter/internal/schedule"
	"github.com/dshills/typewriter/internal/typing"
)

// runMsg carries an engine callback into the bubbletea event loop.
type runMsg func()

// blinkMsg toggles the cursor.
type blinkMsg struct{}

// teaSink holds the render state drawn by View. Only the program
// goroutine touches it once the program runs.
type teaSink struct {
	text          string
	cursorVisible bool
	blinking      bool
	faded         bool
}

func (s *teaSink) SetText(raw string)            { s.text = raw }
func (s *teaSink) SetCursorVisible(visible bool) { s.cursorVisible = visible }
func (s *teaSink) SetCursorBlink(blinking bool)  { s.blinking = blinking }
func (s *teaSink) SetFadeClass(on bool)          { s.faded = on }

var _ typing.Sink = (*teaSink)(nil)

// teaModel is the bubbletea model of the typing view.
type teaModel struct {
	app     *Application
	sink    *teaSink
	focus   *focusBinder
	painter stream.Painter

	cursorChar string
	blinkRate  time.Duration
	animate    bool
	blinkOn    bool
	width      int
	quitting   bool
}

func newTeaModel(a *Application, sink *teaSink, focus *focusBinder) *teaModel {
	return &teaModel{
		app:   a,
		sink:  sink,
		focus: focus,
		painter: stream.NewPainter(lipgloss.NewRenderer(a.out), stream.Options{
			Markup:     a.markup(),
			Foreground: a.cfg.UI.Foreground,
			Bold:       a.cfg.UI.Bold,
		}),
		cursorChar: a.cfg.Typing.CursorChar,
		blinkRate:  a.cfg.UI.BlinkRate,
		animate:    a.cfg.Typing.AutoInsertCSS,
		blinkOn:    true,
	}
}

// requestQuit ends the program after the current update.
func (m *teaModel) requestQuit() {
	m.quitting = true
}

func (m *teaModel) blink() tea.Cmd {
	if m.blinkRate <= 0 || !m.animate {
		return nil
	}
	return tea.Tick(m.blinkRate, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}

func (m *teaModel) Init() tea.Cmd {
	return m.blink()
}

func (m *teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case runMsg:
		msg()

	case blinkMsg:
		if m.sink.blinking {
			m.blinkOn = !m.blinkOn
		} else {
			m.blinkOn = true
		}
		cmd = m.blink()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
		case " ":
			m.app.toggle()
		case "r":
			m.app.restart()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.FocusMsg:
		m.focus.set(true)

	case tea.BlurMsg:
		m.focus.set(false)
	}

	if m.quitting {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *teaModel) View() string {
	var b strings.Builder
	b.WriteString(m.painter.Render(m.sink.text, m.sink.faded))
	if m.sink.cursorVisible && m.blinkOn {
		b.WriteString(m.cursorChar)
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

// runTea types inside a bubbletea program.
func (a *Application) runTea(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sink := &teaSink{}
	focus := newFocusBinder()
	model := newTeaModel(a, sink, focus)

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(a.out),
		tea.WithReportFocus(),
	}
	if a.in != nil {
		opts = append(opts, tea.WithInput(a.in))
	}
	p := tea.NewProgram(model, opts...)

	post := func(fn func()) bool {
		p.Send(runMsg(fn))
		return true
	}

	env := engineEnv{
		sink:  sink,
		sched: schedule.NewPosted(post),
		focus: focus,
		quit:  model.requestQuit,
	}
	if err := a.startEngine(env); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.forwardUpdates(gctx, post)
	})

	return g.Wait()
}
