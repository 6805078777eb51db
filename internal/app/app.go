// Package app wires the typing engine to a frontend and runs it.
//
// An Application resolves the strings to type, loads the optional Lua
// script and keyclick player, and publishes every lifecycle hook on an
// event bus. Run drives one of three frontends: a full-screen tcell
// view, a plain stream on stdout, or a bubbletea program. Each frontend
// owns the goroutine that runs the engine.
package app

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/typewriter/internal/config"
	"github.com/dshills/typewriter/internal/event"
	"github.com/dshills/typewriter/internal/renderer"
	"github.com/dshills/typewriter/internal/renderer/backend"
	"github.com/dshills/typewriter/internal/schedule"
	"github.com/dshills/typewriter/internal/script"
	"github.com/dshills/typewriter/internal/sound"
	"github.com/dshills/typewriter/internal/source"
	"github.com/dshills/typewriter/internal/typing"
)

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the root logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Application) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithBackend sets the backend of the terminal frontend. The default is a
// tcell screen.
func WithBackend(b backend.Backend) Option {
	return func(a *Application) {
		a.backend = b
	}
}

// WithOutput sets the writer of the plain and bubbletea frontends.
func WithOutput(w io.Writer) Option {
	return func(a *Application) {
		if w != nil {
			a.out = w
		}
	}
}

// WithInput sets the reader the bubbletea frontend reads keys from.
func WithInput(r io.Reader) Option {
	return func(a *Application) {
		a.in = r
	}
}

// WithBus sets the event bus hooks are published on.
func WithBus(bus *event.Bus) Option {
	return func(a *Application) {
		if bus != nil {
			a.bus = bus
		}
	}
}

// WithClicker replaces the keyclick player.
func WithClicker(c sound.Clicker) Option {
	return func(a *Application) {
		a.clicker = c
	}
}

// Application is the central coordinator for all typewriter components.
type Application struct {
	cfg     *config.Config
	logger  *zap.Logger
	bus     *event.Bus
	backend backend.Backend
	out     io.Writer
	in      io.Reader

	runner  *script.Runner
	player  *sound.Player
	clicker sound.Clicker
	watcher *source.Watcher

	strings []string
	running atomic.Bool

	// Owned by the frontend goroutine while Run executes.
	typed     *typing.Typed
	env       engineEnv
	eventCtx  context.Context
	exitTimer schedule.Timer
}

// engineEnv is what a frontend provides to the engine.
type engineEnv struct {
	sink  typing.Sink
	sched schedule.Scheduler
	focus typing.FocusSource

	// quit ends the frontend. It runs on the frontend goroutine.
	quit func()
}

// New validates cfg and prepares the components it enables.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	a := &Application{
		cfg:      cfg,
		logger:   zap.NewNop(),
		out:      os.Stdout,
		eventCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.bus == nil {
		a.bus = event.NewBus(event.WithLogger(a.logger.Named("event")))
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewComponentError("config", "validate", err)
	}

	a.strings = cfg.Typing.Strings
	if cfg.Source.File != "" {
		strs, err := source.Load(cfg.Source.File, cfg.Source.KeyPath)
		if err != nil {
			return nil, NewComponentError("source", "load", err)
		}
		a.strings = strs
	}

	if cfg.Script.Path != "" {
		runner, err := script.Load(cfg.Script.Path,
			script.WithExecutionTimeout(cfg.Script.Timeout),
			script.WithLogger(a.logger.Named("script")),
		)
		if err != nil {
			return nil, NewComponentError("script", "load", err)
		}
		a.runner = runner
	}

	if cfg.Sound.Enabled && a.clicker == nil {
		a.player = sound.NewPlayer(
			sound.WithVolume(cfg.Sound.Volume),
			sound.WithLogger(a.logger.Named("sound")),
		)
		a.clicker = a.player
	}

	return a, nil
}

// Bus returns the event bus lifecycle events are published on.
func (a *Application) Bus() *event.Bus {
	return a.bus
}

// Strings returns the strings the engine types.
func (a *Application) Strings() []string {
	return append([]string(nil), a.strings...)
}

// Run drives the configured frontend until the user quits, ctx is
// cancelled, or typing completes with exit-on-complete set. The final
// text stays on screen.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	// Events still reach subscribers while the frontend shuts down.
	a.eventCtx = context.WithoutCancel(ctx)

	if a.cfg.Source.File != "" && a.cfg.Source.Watch {
		w, err := source.NewWatcher(a.cfg.Source.File,
			source.WithKeyPath(a.cfg.Source.KeyPath),
			source.WithDebounce(a.cfg.Source.Debounce),
			source.WithLogger(a.logger.Named("source")),
		)
		if err != nil {
			return NewComponentError("source", "watch", err)
		}
		a.watcher = w
		defer func() {
			w.Close()
			a.watcher = nil
		}()
	}

	var err error
	switch a.cfg.UI.Mode {
	case config.UITerminal:
		err = a.runTerminal(ctx)
	case config.UIPlain:
		err = a.runPlain(ctx)
	case config.UIBubbleTea:
		err = a.runTea(ctx)
	default:
		return NewComponentError("ui", a.cfg.UI.Mode, ErrNoFrontend)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Close releases the script, the audio device and the bus.
func (a *Application) Close() error {
	var errs []error
	if a.runner != nil {
		errs = append(errs, a.runner.Close())
	}
	if a.player != nil {
		a.player.Close()
	}
	a.bus.Close()
	return errors.Join(errs...)
}

// startEngine creates an engine for the current strings. It must run on
// the frontend goroutine, or before that goroutine starts.
func (a *Application) startEngine(env engineEnv) error {
	opts, err := a.cfg.TypingOptions()
	if err != nil {
		return NewComponentError("typing", "configure", err)
	}
	opts.Strings = a.strings

	sets := []typing.Hooks{a.busHooks()}
	if a.runner != nil {
		sets = append(sets, a.runner.Hooks())
	}
	sets = append(sets, typing.Hooks{OnComplete: a.onComplete})
	opts.Hooks = typing.ChainHooks(sets...)

	options := []typing.Option{
		typing.WithScheduler(env.sched),
		typing.WithLogger(a.logger.Named("typing")),
	}
	if env.focus != nil {
		options = append(options, typing.WithFocusSource(env.focus))
	}
	if seed := a.cfg.Typing.Seed; seed != 0 {
		options = append(options, typing.WithRandSource(rand.NewPCG(seed, seed)))
	}

	a.env = env
	t, err := typing.New(a.wrapSink(env.sink), opts, options...)
	if err != nil {
		return NewComponentError("typing", "start", err)
	}
	a.typed = t
	if a.runner != nil {
		a.runner.Bind(t)
	}
	return nil
}

func (a *Application) wrapSink(s typing.Sink) typing.Sink {
	if a.clicker == nil {
		return s
	}
	return renderer.NewTee(s, sound.NewSink(a.clicker))
}

func (a *Application) onComplete(_ *typing.Typed) {
	if !a.cfg.UI.ExitOnComplete && a.cfg.UI.Mode != config.UIPlain {
		return
	}
	quit := a.env.quit
	if quit == nil {
		return
	}
	if a.cfg.UI.Mode == config.UIPlain {
		quit()
		return
	}
	// Leave the finished text on screen for a moment.
	a.cancelExit()
	a.exitTimer = a.env.sched.AfterFunc(a.cfg.Typing.BackDelay, quit)
}

// cancelExit drops a pending exit-on-complete quit.
func (a *Application) cancelExit() {
	if a.exitTimer != nil {
		a.exitTimer.Stop()
		a.exitTimer = nil
	}
}

// toggle pauses or resumes typing.
func (a *Application) toggle() {
	if a.typed != nil {
		a.typed.Toggle()
	}
}

// restart types the strings again from the beginning.
func (a *Application) restart() {
	a.cancelExit()
	if a.typed != nil {
		a.typed.Reset(true)
	}
}

// reload replaces the engine after the strings file changed.
func (a *Application) reload(u source.Update) {
	if u.Err != nil {
		a.logger.Warn("strings reload failed", zap.String("path", u.Path), zap.Error(u.Err))
		a.publish(event.TopicSourceError, event.SourcePayload{Path: u.Path, Err: u.Err})
		return
	}

	a.strings = u.Strings
	a.cancelExit()
	if a.typed != nil {
		a.typed.Destroy()
	}
	if err := a.startEngine(a.env); err != nil {
		a.logger.Error("restart after reload failed", zap.Error(err))
		return
	}

	a.logger.Info("strings reloaded", zap.String("path", u.Path), zap.Int("count", len(u.Strings)))
	a.publish(event.TopicSourceReloaded, event.SourcePayload{Path: u.Path, Count: len(u.Strings)})
}

// forwardUpdates hands watcher updates to the frontend goroutine.
func (a *Application) forwardUpdates(ctx context.Context, post schedule.PostFunc) error {
	if a.watcher == nil {
		return nil
	}
	updates := a.watcher.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if !post(func() { a.reload(u) }) {
				return nil
			}
		}
	}
}
