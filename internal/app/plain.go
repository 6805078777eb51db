package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/typewriter/internal/config"
	"github.com/dshills/typewriter/internal/renderer/stream"
	"github.com/dshills/typewriter/internal/schedule"
)

// runPlain types into the output writer. It returns when typing
// completes, or on cancellation for an endless loop.
func (a *Application) runPlain(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := schedule.NewLoop(schedule.WithLoopLogger(a.logger.Named("loop")))
	sink := stream.New(a.out, a.streamOptions())

	env := engineEnv{sink: sink, sched: loop, quit: cancel}
	if err := a.startEngine(env); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx)
	})
	g.Go(func() error {
		return a.forwardUpdates(gctx, loop.Post)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if ferr := sink.Flush(); ferr != nil {
		return NewComponentError("stream", "write", ferr)
	}
	return err
}

func (a *Application) streamOptions() stream.Options {
	opts := stream.Options{
		Markup:     a.markup(),
		CursorChar: a.cfg.Typing.CursorChar,
		Foreground: a.cfg.UI.Foreground,
		Bold:       a.cfg.UI.Bold,
	}
	switch a.cfg.UI.Stream {
	case config.StreamRewrite:
		opts.Mode = stream.ModeRewrite
	case config.StreamLine:
		opts.Mode = stream.ModeLine
	default:
		opts.Mode = stream.ModeAuto
	}
	return opts
}
