package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/typewriter/internal/renderer"
	"github.com/dshills/typewriter/internal/renderer/backend"
	"github.com/dshills/typewriter/internal/renderer/core"
	"github.com/dshills/typewriter/internal/renderer/cursor"
	"github.com/dshills/typewriter/internal/schedule"
	"github.com/dshills/typewriter/internal/typing"
)

// runTerminal types into a full-screen tcell view, or into the window
// title when the attr option is "title".
func (a *Application) runTerminal(ctx context.Context) error {
	b := a.backend
	if b == nil {
		t, err := backend.NewTerminal()
		if err != nil {
			return NewComponentError("backend", "create", err)
		}
		b = t
	}
	if err := b.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}
	var shutdown sync.Once
	stopBackend := func() { shutdown.Do(b.Shutdown) }
	defer stopBackend()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := schedule.NewLoop(schedule.WithLoopLogger(a.logger.Named("loop")))
	focus := newFocusBinder()

	var view *renderer.TextView
	var sink typing.Sink
	if a.cfg.Typing.Attr == typing.AttrTitle {
		sink = renderer.NewTitleSink(b, a.markup(), a.cfg.Typing.CursorChar)
	} else {
		view = renderer.NewTextView(b, a.textViewOptions())
		sink = view
	}

	if view != nil {
		b.OnResize(func(int, int) {
			loop.Post(func() { view.Resize(core.Rect{}) })
		})
	}

	env := engineEnv{sink: sink, sched: loop, focus: focus, quit: cancel}
	if err := a.startEngine(env); err != nil {
		return err
	}

	if view != nil && a.cfg.UI.TickInterval > 0 {
		stopTick := loop.Every(a.cfg.UI.TickInterval, func() { view.Tick(time.Now()) })
		defer stopTick()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Closing the backend releases the poller.
		defer stopBackend()
		defer cancel()
		return loop.Run(gctx)
	})

	g.Go(func() error {
		for {
			ev := b.PollEvent()
			if ev.Type == backend.EventNone {
				return nil
			}
			if !loop.Post(func() { a.handleTerminalEvent(ev, view, focus, cancel) }) {
				return nil
			}
		}
	})

	g.Go(func() error {
		return a.forwardUpdates(gctx, loop.Post)
	})

	return g.Wait()
}

// handleTerminalEvent processes a backend event on the loop goroutine.
func (a *Application) handleTerminalEvent(ev backend.Event, view *renderer.TextView, focus *focusBinder, quit func()) {
	switch ev.Type {
	case backend.EventKey:
		a.handleKey(ev, view, quit)
	case backend.EventFocus:
		focus.set(ev.Focused)
	}
}

func (a *Application) handleKey(ev backend.Event, view *renderer.TextView, quit func()) {
	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyEscape:
		quit()
		return
	case backend.KeyCtrlL:
		if view != nil {
			view.Redraw()
		}
		return
	case backend.KeyRune:
	default:
		return
	}

	switch ev.Rune {
	case 'q', 'Q':
		quit()
	case ' ':
		a.toggle()
	case 'r', 'R':
		a.restart()
	}
}

func (a *Application) markup() bool {
	ct, err := typing.ParseContentType(a.cfg.Typing.ContentType)
	return err == nil && ct == typing.ContentHTML
}

func (a *Application) textViewOptions() renderer.TextViewOptions {
	ui := a.cfg.UI
	opts := renderer.DefaultTextViewOptions()

	opts.Markup = a.markup()
	opts.Animate = a.cfg.Typing.AutoInsertCSS
	opts.FadeDuration = a.cfg.Typing.FadeOutDelay
	opts.Cursor = cursor.Config{
		Style:     cursor.StyleFromString(ui.CursorStyle),
		Char:      a.cfg.Typing.CursorChar,
		BlinkRate: ui.BlinkRate,
		Color:     core.ColorDefault,
	}

	if ui.Foreground != "" {
		if c, err := core.ColorFromHex(ui.Foreground); err == nil {
			opts.Style = opts.Style.WithForeground(c)
		}
	}
	if ui.FadeColor != "" {
		if c, err := core.ColorFromHex(ui.FadeColor); err == nil {
			opts.FadeColor = c
		}
	}
	if ui.Bold {
		opts.Style = opts.Style.WithAttributes(core.AttrBold)
	}

	return opts
}
