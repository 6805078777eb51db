package script

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/typewriter/internal/typing"
)

// Controller is the engine surface exposed to scripts. *typing.Typed
// implements it.
type Controller interface {
	Start()
	Stop()
	Toggle()
	Reset(restart bool)
	Destroy()
	StrPos() int
	ArrayPos() int
	CurLoop() int
	State() typing.State
	Text() string
}

// Hook function names.
const (
	FuncBegin          = "on_begin"
	FuncComplete       = "on_complete"
	FuncPreStringTyped = "pre_string_typed"
	FuncStringTyped    = "on_string_typed"
	FuncLastBackspaced = "on_last_string_backspaced"
	FuncTypingPaused   = "on_typing_paused"
	FuncTypingResumed  = "on_typing_resumed"
	FuncReset          = "on_reset"
	FuncStop           = "on_stop"
	FuncStart          = "on_start"
	FuncDestroy        = "on_destroy"
)

// Runner binds a loaded script to an engine.
type Runner struct {
	state  *State
	logger *zap.Logger
	target Controller
}

// Load runs the script file at path and returns a runner for its hooks.
func Load(path string, opts ...StateOption) (*Runner, error) {
	r := newRunner(opts...)
	if err := r.state.DoFile(path); err != nil {
		r.state.Close()
		return nil, err
	}
	return r, nil
}

// LoadString runs code and returns a runner for its hooks.
func LoadString(code string, opts ...StateOption) (*Runner, error) {
	r := newRunner(opts...)
	if err := r.state.DoString(code); err != nil {
		r.state.Close()
		return nil, err
	}
	return r, nil
}

func newRunner(opts ...StateOption) *Runner {
	state := NewState(opts...)
	r := &Runner{
		state:  state,
		logger: state.logger,
	}
	state.RegisterModule("typed", r.module())
	return r
}

// State returns the underlying Lua state.
func (r *Runner) State() *State {
	return r.state
}

// Bind sets the engine controlled by typed.* outside of hooks. Hooks
// always act on the engine that fired them.
func (r *Runner) Bind(c Controller) {
	r.target = c
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	r.target = nil
	return r.state.Close()
}

// Hooks returns engine hooks for the functions the script defines.
func (r *Runner) Hooks() typing.Hooks {
	var h typing.Hooks
	if r.state.HasFunction(FuncBegin) {
		h.OnBegin = r.instanceHook(FuncBegin)
	}
	if r.state.HasFunction(FuncComplete) {
		h.OnComplete = r.instanceHook(FuncComplete)
	}
	if r.state.HasFunction(FuncLastBackspaced) {
		h.OnLastStringBackspaced = r.instanceHook(FuncLastBackspaced)
	}
	if r.state.HasFunction(FuncReset) {
		h.OnReset = r.instanceHook(FuncReset)
	}
	if r.state.HasFunction(FuncDestroy) {
		h.OnDestroy = r.instanceHook(FuncDestroy)
	}
	if r.state.HasFunction(FuncPreStringTyped) {
		h.PreStringTyped = r.posHook(FuncPreStringTyped)
	}
	if r.state.HasFunction(FuncStringTyped) {
		h.OnStringTyped = r.posHook(FuncStringTyped)
	}
	if r.state.HasFunction(FuncTypingPaused) {
		h.OnTypingPaused = r.posHook(FuncTypingPaused)
	}
	if r.state.HasFunction(FuncTypingResumed) {
		h.OnTypingResumed = r.posHook(FuncTypingResumed)
	}
	if r.state.HasFunction(FuncStop) {
		h.OnStop = r.posHook(FuncStop)
	}
	if r.state.HasFunction(FuncStart) {
		h.OnStart = r.posHook(FuncStart)
	}
	return h
}

func (r *Runner) instanceHook(name string) func(*typing.Typed) {
	return func(t *typing.Typed) {
		r.call(name, t)
	}
}

func (r *Runner) posHook(name string) func(int, *typing.Typed) {
	return func(pos int, t *typing.Typed) {
		r.call(name, t, lua.LNumber(pos))
	}
}

func (r *Runner) call(name string, t *typing.Typed, args ...lua.LValue) {
	if t != nil {
		r.target = t
	}
	if _, err := r.state.Call(name, args...); err != nil {
		r.logger.Warn("script hook failed", zap.String("hook", name), zap.Error(err))
	}
}

func (r *Runner) module() map[string]lua.LGFunction {
	command := func(fn func(Controller)) lua.LGFunction {
		return func(L *lua.LState) int {
			if r.target != nil {
				fn(r.target)
			}
			return 0
		}
	}
	query := func(fn func(Controller) lua.LValue) lua.LGFunction {
		return func(L *lua.LState) int {
			if r.target == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(fn(r.target))
			return 1
		}
	}

	return map[string]lua.LGFunction{
		"start":   command(Controller.Start),
		"stop":    command(Controller.Stop),
		"toggle":  command(Controller.Toggle),
		"destroy": command(Controller.Destroy),
		"reset": func(L *lua.LState) int {
			restart := L.OptBool(1, true)
			if r.target != nil {
				r.target.Reset(restart)
			}
			return 0
		},
		"str_pos":   query(func(c Controller) lua.LValue { return lua.LNumber(c.StrPos()) }),
		"array_pos": query(func(c Controller) lua.LValue { return lua.LNumber(c.ArrayPos()) }),
		"cur_loop":  query(func(c Controller) lua.LValue { return lua.LNumber(c.CurLoop()) }),
		"state":     query(func(c Controller) lua.LValue { return lua.LString(c.State().String()) }),
		"text":      query(func(c Controller) lua.LValue { return lua.LString(c.Text()) }),
		"log": func(L *lua.LState) int {
			r.logger.Info("script log", zap.String("msg", L.CheckString(1)))
			return 0
		},
	}
}
