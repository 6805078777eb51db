// Package typing implements the typing engine: a single-threaded state
// machine that types a sequence of strings character by character,
// backspaces them, and moves on, driven by one cancellable timer.
//
// The engine never renders anything itself. Text, cursor and fade changes
// go to a Sink, and every timer is created through a schedule.Scheduler so
// that all state transitions happen on the scheduler's owner goroutine.
//
// Basic usage:
//
//	loop := schedule.NewLoop()
//	opts := typing.DefaultOptions()
//	opts.Strings = []string{"First sentence.", "Second sentence."}
//	opts.TypeSpeed = humanize.Range(30*time.Millisecond, 80*time.Millisecond)
//
//	loop.Post(func() {
//	    t, err := typing.New(sink, opts, typing.WithScheduler(loop))
//	    ...
//	})
//	loop.Run(ctx)
//
// Every public method must be called on the scheduler's goroutine. Hooks
// run synchronously on that goroutine and may call back into the engine.
package typing
