package typing

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/typewriter/internal/humanize"
	"github.com/dshills/typewriter/internal/schedule"
	"github.com/dshills/typewriter/internal/sequence"
)

// Sink receives rendering updates from the engine.
type Sink interface {
	// SetText replaces the visible text with the raw string typed so far.
	SetText(raw string)
	// SetCursorVisible shows or hides the cursor.
	SetCursorVisible(visible bool)
	// SetCursorBlink starts or stops cursor blinking.
	SetCursorBlink(blinking bool)
	// SetFadeClass applies or removes the fade-out style.
	SetFadeClass(on bool)
}

// FocusSource reports focus changes of the typing target.
type FocusSource interface {
	// BindFocus registers focus callbacks and returns a function that
	// removes them. Callbacks must run on the engine goroutine.
	BindFocus(onFocus, onBlur func()) (unbind func())
	// HasInput reports whether the target holds user input.
	HasInput() bool
}

// Option configures a Typed instance.
type Option func(*Typed)

// WithScheduler sets the scheduler that runs the engine's timers.
func WithScheduler(s schedule.Scheduler) Option {
	return func(t *Typed) {
		if s != nil {
			t.sched = s
		}
	}
}

// WithRandSource sets the random source used for shuffling and speed
// ranges. A fixed source makes runs reproducible.
func WithRandSource(src rand.Source) Option {
	return func(t *Typed) {
		t.src = src
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Typed) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithFocusSource sets the focus source used by BindInputFocusEvents.
func WithFocusSource(f FocusSource) Option {
	return func(t *Typed) {
		t.focus = f
	}
}

// WithID sets the instance ID.
func WithID(id string) Option {
	return func(t *Typed) {
		if id != "" {
			t.id = id
		}
	}
}

// Typed is a typing animation.
//
// All methods must be called on the goroutine that runs the scheduler's
// callbacks. Calls after Destroy are ignored.
type Typed struct {
	id     string
	opts   Options
	sink   Sink
	sched  schedule.Scheduler
	focus  FocusSource
	logger *zap.Logger
	src    rand.Source

	human   *humanize.Humanizer
	seq     *sequence.Sequencer
	scripts []*Script

	state          State
	strPos         int
	stopNum        int
	floor          int
	typingComplete bool
	temporaryPause bool
	cursorBlinking bool
	fadeApplied    bool
	preFired       bool
	pauseDoneAt    int
	beginFired     bool
	completeFired  bool

	// Pending timer. gen invalidates callbacks of replaced timers.
	timer        schedule.Timer
	pending      phase
	pendingDelay time.Duration
	gen          uint64

	// Step to re-arm on Start.
	resumeState State
	resume      phase
	resumeDelay time.Duration

	// epoch changes on every external command so that internal flows
	// can tell whether a hook intervened.
	epoch  uint64
	unbind func()
}

// New validates opts, compiles the strings and begins typing. The first
// character is scheduled after StartDelay. Without WithScheduler the
// engine uses a schedule.Loop that the caller cannot run, so a scheduler
// should always be given.
func New(sink Sink, opts Options, options ...Option) (*Typed, error) {
	if sink == nil {
		return nil, &ConfigError{Field: "sink", Err: ErrNoSink}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := &Typed{
		opts:        opts.clone(),
		sink:        sink,
		logger:      zap.NewNop(),
		pauseDoneAt: -1,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.id == "" {
		t.id = uuid.NewString()
	}
	if t.sched == nil {
		t.sched = schedule.NewLoop()
	}
	t.logger = t.logger.With(zap.String("typed_id", t.id))

	var humanSrc, seqSrc rand.Source
	if t.src != nil {
		r := rand.New(t.src)
		humanSrc = rand.NewPCG(r.Uint64(), r.Uint64())
		seqSrc = rand.NewPCG(r.Uint64(), r.Uint64())
	}
	t.human = humanize.New(humanSrc)

	seq, err := sequence.New(t.opts.Strings, sequence.Config{
		Shuffle:   t.opts.Shuffle,
		Loop:      t.opts.Loop,
		LoopCount: t.opts.LoopCount,
	}, seqSrc)
	if err != nil {
		return nil, &ConfigError{Field: "strings", Err: ErrNoStrings}
	}
	t.seq = seq

	t.scripts = make([]*Script, len(t.opts.Strings))
	for i, s := range t.opts.Strings {
		t.scripts[i] = CompileScript(s, t.opts.ContentType)
	}

	t.logger.Debug("typed created",
		zap.Int("strings", len(t.scripts)),
		zap.Bool("loop", t.opts.Loop),
		zap.Int("loop_count", t.opts.LoopCount),
		zap.Bool("shuffle", t.opts.Shuffle),
	)

	t.begin()
	return t, nil
}

// begin starts the first pass.
func (t *Typed) begin() {
	t.typingComplete = false
	t.strPos = 0
	t.preFired = false
	t.pauseDoneAt = -1
	t.seq.BeginPass()

	t.sink.SetCursorVisible(t.opts.ShowCursor)
	t.cursorBlinking = true
	t.sink.SetCursorBlink(true)
	t.bindFocus()

	t.state = StatePausedBetween
	t.schedule(phaseBegin, t.opts.StartDelay)

	if !t.beginFired {
		t.beginFired = true
		if fn := t.opts.Hooks.OnBegin; fn != nil {
			fn(t)
		}
	}
}

func (t *Typed) bindFocus() {
	if !t.opts.BindInputFocusEvents || t.focus == nil || t.unbind != nil {
		return
	}
	t.unbind = t.focus.BindFocus(
		func() { t.Stop() },
		func() {
			if t.focus.HasInput() {
				return
			}
			t.Start()
		},
	)
}

func (t *Typed) unbindFocus() {
	if t.unbind != nil {
		t.unbind()
		t.unbind = nil
	}
}

// schedule replaces the pending timer.
func (t *Typed) schedule(p phase, d time.Duration) {
	t.cancel()
	t.gen++
	gen := t.gen
	t.pending = p
	t.pendingDelay = d
	t.timer = t.sched.AfterFunc(d, func() {
		if gen != t.gen || t.state == StateDestroyed {
			return
		}
		t.timer = nil
		t.pending = phaseNone
		t.pendingDelay = 0
		t.run(p)
	})
}

// cancel stops the pending timer.
func (t *Typed) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.pending = phaseNone
	t.pendingDelay = 0
}

func (t *Typed) run(p phase) {
	switch p {
	case phaseBegin:
		t.state = StateTypingForward
		t.schedule(phaseType, t.human.Delay(t.opts.TypeSpeed))
	case phaseType:
		t.typeStep()
	case phasePauseEnd:
		t.endPause(true)
	case phaseTrailingPause:
		if t.endPause(false) {
			t.doneTyping()
		}
	case phaseBackDelay:
		t.startRemoval()
	case phaseBackspace:
		t.backspaceStep()
	case phaseFadeEnd:
		t.strPos = 0
		t.sink.SetText("")
		t.nextString()
	case phaseComplete:
		t.complete()
	}
}

func (t *Typed) current() *Script {
	return t.scripts[t.seq.StringIndex()]
}

// typeStep types the next step of the current string.
func (t *Typed) typeStep() {
	t.state = StateTypingForward

	if !t.preFired {
		t.preFired = true
		if fn := t.opts.Hooks.PreStringTyped; fn != nil {
			e := t.epoch
			fn(t.seq.Index(), t)
			if e != t.epoch || t.state != StateTypingForward {
				return
			}
		}
	}

	if t.fadeApplied {
		t.fadeApplied = false
		t.sink.SetFadeClass(false)
	}

	script := t.current()
	_, pause := script.Forward(t.strPos)
	if pause > 0 && t.pauseDoneAt != t.strPos {
		t.pauseDoneAt = t.strPos
		t.temporaryPause = true
		t.setBlink(true)
		t.schedule(phasePauseEnd, pause)
		if fn := t.opts.Hooks.OnTypingPaused; fn != nil {
			fn(t.seq.Index(), t)
		}
		return
	}

	t.advance()
}

// endPause finishes an embedded pause. When typeNext is set the step the
// pause preceded is typed at once. It reports false when the resumed
// hook issued a command, in which case the caller must not continue.
func (t *Typed) endPause(typeNext bool) bool {
	t.temporaryPause = false
	if fn := t.opts.Hooks.OnTypingResumed; fn != nil {
		e := t.epoch
		fn(t.seq.Index(), t)
		if e != t.epoch {
			return false
		}
	}
	if typeNext {
		t.state = StateTypingForward
		t.advance()
	}
	return true
}

// advance renders one forward step and schedules what follows.
func (t *Typed) advance() {
	script := t.current()
	next, _ := script.Forward(t.strPos)
	t.strPos = next
	t.sink.SetText(script.Text(t.strPos))
	t.setBlink(false)

	if t.strPos < script.Len() {
		t.schedule(phaseType, t.human.Delay(t.opts.TypeSpeed))
		return
	}

	if pause := script.TrailingPause(); pause > 0 && t.pauseDoneAt != t.strPos {
		t.pauseDoneAt = t.strPos
		t.temporaryPause = true
		t.setBlink(true)
		t.schedule(phaseTrailingPause, pause)
		if fn := t.opts.Hooks.OnTypingPaused; fn != nil {
			fn(t.seq.Index(), t)
		}
		return
	}

	t.doneTyping()
}

// doneTyping runs after the last character of a string.
func (t *Typed) doneTyping() {
	t.state = StatePausedBetween
	t.setBlink(true)

	if t.seq.IsLastInPass() && !t.opts.Loop {
		t.schedule(phaseComplete, 0)
	} else {
		t.schedule(phaseBackDelay, t.opts.BackDelay)
	}

	if fn := t.opts.Hooks.OnStringTyped; fn != nil {
		fn(t.seq.Index(), t)
	}
}

// startRemoval fades or backspaces the current string.
func (t *Typed) startRemoval() {
	if t.opts.FadeOut {
		t.state = StateFadingOut
		t.fadeApplied = true
		t.sink.SetFadeClass(true)
		t.schedule(phaseFadeEnd, t.opts.FadeOutDelay)
		return
	}

	t.state = StateBackspacing
	t.floor = 0
	if t.opts.SmartBackspace && !t.seq.IsLastInPass() {
		next := t.scripts[t.seq.Order()[t.seq.Index()+1]]
		t.floor = t.current().SharedPrefix(next)
	}

	if t.strPos <= t.floor {
		t.nextString()
		return
	}
	t.setBlink(false)
	t.schedule(phaseBackspace, t.human.Delay(t.opts.BackSpeed))
}

// backspaceStep removes one unit of the current string.
func (t *Typed) backspaceStep() {
	t.state = StateBackspacing
	script := t.current()
	t.strPos = max(script.Backward(t.strPos), t.floor)
	t.sink.SetText(script.Text(t.strPos))

	if t.strPos > t.floor {
		t.schedule(phaseBackspace, t.human.Delay(t.opts.BackSpeed))
		return
	}
	t.nextString()
}

// nextString moves past a removed string.
func (t *Typed) nextString() {
	wasLast := t.seq.IsLastInPass()
	step := t.seq.Advance()

	t.preFired = false
	t.pauseDoneAt = -1

	switch step {
	case sequence.StepNext:
		t.state = StateTypingForward
		t.schedule(phaseType, t.human.Delay(t.opts.TypeSpeed))
	case sequence.StepNewPass:
		if t.strPos != 0 {
			t.strPos = 0
			t.sink.SetText("")
		}
		t.state = StatePausedBetween
		t.schedule(phaseBegin, t.opts.StartDelay)
	case sequence.StepExhausted:
		t.state = StatePausedBetween
		t.schedule(phaseComplete, 0)
	}

	t.logger.Debug("string removed",
		zap.Stringer("step", step),
		zap.Int("array_pos", t.seq.Index()),
		zap.Int("cur_loop", t.seq.CurLoop()),
	)

	if wasLast {
		if fn := t.opts.Hooks.OnLastStringBackspaced; fn != nil {
			fn(t)
		}
	}
}

// complete ends the animation.
func (t *Typed) complete() {
	t.cancel()
	t.state = StateComplete
	t.typingComplete = true
	t.setBlink(true)
	if t.fadeApplied {
		t.fadeApplied = false
		t.sink.SetFadeClass(false)
	}

	if t.completeFired {
		return
	}
	t.completeFired = true
	t.logger.Debug("typing complete", zap.Int("cur_loop", t.seq.CurLoop()))
	if fn := t.opts.Hooks.OnComplete; fn != nil {
		fn(t)
	}
}

func (t *Typed) setBlink(on bool) {
	if t.cursorBlinking == on {
		return
	}
	t.cursorBlinking = on
	t.sink.SetCursorBlink(on)
}

// Stop pauses the animation. It has no effect unless the engine is
// typing, backspacing, fading or waiting between strings.
func (t *Typed) Stop() {
	if !t.state.IsActive() {
		t.logger.Debug("stop ignored", zap.Stringer("state", t.state))
		return
	}
	t.epoch++

	t.resumeState = t.state
	t.resume = t.pending
	t.resumeDelay = t.pendingDelay
	if t.resume == phaseNone {
		t.resume = fallbackPhase(t.state)
	}

	t.cancel()
	t.stopNum = t.strPos
	t.state = StateStopped
	t.setBlink(true)

	t.logger.Debug("typing stopped",
		zap.Stringer("resume", t.resume),
		zap.Int("stop_num", t.stopNum),
	)
	if fn := t.opts.Hooks.OnStop; fn != nil {
		fn(t.seq.Index(), t)
	}
}

func fallbackPhase(s State) phase {
	switch s {
	case StateBackspacing:
		return phaseBackspace
	case StateFadingOut:
		return phaseFadeEnd
	case StatePausedBetween:
		return phaseBackDelay
	default:
		return phaseType
	}
}

// Start resumes a stopped animation at the recorded position and
// direction. It has no effect unless the engine is stopped.
func (t *Typed) Start() {
	if t.state != StateStopped {
		t.logger.Debug("start ignored", zap.Stringer("state", t.state))
		return
	}
	t.epoch++

	t.strPos = t.stopNum
	t.state = t.resumeState
	t.schedule(t.resume, t.resumeDelay)
	t.setBlink(false)

	t.logger.Debug("typing started", zap.Stringer("phase", t.resume), zap.Int("str_pos", t.strPos))
	if fn := t.opts.Hooks.OnStart; fn != nil {
		fn(t.seq.Index(), t)
	}
}

// Toggle stops an active animation or starts a stopped one.
func (t *Typed) Toggle() {
	if t.state == StateStopped {
		t.Start()
		return
	}
	t.Stop()
}

// Reset clears the text and returns to the first string of a fresh
// sequence. With restart set typing begins again.
func (t *Typed) Reset(restart bool) {
	if t.state == StateDestroyed {
		t.logger.Debug("reset ignored after destroy")
		return
	}
	t.epoch++
	e := t.epoch

	t.cancel()
	t.sink.SetText("")
	if t.fadeApplied {
		t.fadeApplied = false
		t.sink.SetFadeClass(false)
	}
	t.sink.SetCursorVisible(false)

	t.seq.Reset()
	t.strPos = 0
	t.stopNum = 0
	t.floor = 0
	t.typingComplete = false
	t.temporaryPause = false
	t.preFired = false
	t.pauseDoneAt = -1
	t.beginFired = false
	t.completeFired = false
	t.resume = phaseNone
	t.state = StateIdle

	t.logger.Debug("typing reset", zap.Bool("restart", restart))
	if fn := t.opts.Hooks.OnReset; fn != nil {
		fn(t)
		if e != t.epoch {
			return
		}
	}

	if restart {
		t.begin()
	}
}

// Destroy stops the animation for good, clears the text, removes the
// cursor and focus bindings.
func (t *Typed) Destroy() {
	if t.state == StateDestroyed {
		return
	}
	t.epoch++

	t.cancel()
	t.sink.SetText("")
	t.sink.SetCursorVisible(false)
	t.unbindFocus()
	t.state = StateDestroyed

	t.logger.Debug("typed destroyed")
	if fn := t.opts.Hooks.OnDestroy; fn != nil {
		fn(t)
	}
}

// ID returns the instance ID.
func (t *Typed) ID() string {
	return t.id
}

// Options returns a copy of the options.
func (t *Typed) Options() Options {
	return t.opts.clone()
}

// State returns the lifecycle state.
func (t *Typed) State() State {
	return t.state
}

// StrPos returns the rune offset into the current string's rendered text.
func (t *Typed) StrPos() int {
	return t.strPos
}

// ArrayPos returns the position within the current pass.
func (t *Typed) ArrayPos() int {
	return t.seq.Index()
}

// StringIndex returns the index into Options.Strings of the current
// string.
func (t *Typed) StringIndex() int {
	return t.seq.StringIndex()
}

// CurLoop returns the number of completed passes.
func (t *Typed) CurLoop() int {
	return t.seq.CurLoop()
}

// Sequence returns the visiting order of the current pass.
func (t *Typed) Sequence() []int {
	return t.seq.Order()
}

// TypingComplete reports whether every string has been typed.
func (t *Typed) TypingComplete() bool {
	return t.typingComplete
}

// TemporaryPause reports whether an embedded pause is in progress.
func (t *Typed) TemporaryPause() bool {
	return t.temporaryPause
}

// CursorBlinking reports whether the cursor blinks.
func (t *Typed) CursorBlinking() bool {
	return t.cursorBlinking
}

// StopNum returns the position recorded by the last Stop.
func (t *Typed) StopNum() int {
	return t.stopNum
}

// CurrentString returns the configured string being typed.
func (t *Typed) CurrentString() string {
	return t.current().Source()
}

// Text returns the rendered text currently visible.
func (t *Typed) Text() string {
	if t.state == StateDestroyed {
		return ""
	}
	return t.current().Text(t.strPos)
}
