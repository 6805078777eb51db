package typing

// State is the engine's lifecycle state.
type State int

const (
	// StateIdle is the state before typing begins and after Reset.
	StateIdle State = iota
	// StateTypingForward types characters.
	StateTypingForward
	// StatePausedBetween waits between strings or before a pass.
	StatePausedBetween
	// StateBackspacing removes characters.
	StateBackspacing
	// StateFadingOut waits for a fade to finish.
	StateFadingOut
	// StateStopped is an explicit, resumable stop.
	StateStopped
	// StateComplete is reached when every string has been typed.
	StateComplete
	// StateDestroyed is terminal.
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTypingForward:
		return "typing"
	case StatePausedBetween:
		return "paused-between"
	case StateBackspacing:
		return "backspacing"
	case StateFadingOut:
		return "fading-out"
	case StateStopped:
		return "stopped"
	case StateComplete:
		return "complete"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// IsActive reports whether Stop has an effect in this state.
func (s State) IsActive() bool {
	switch s {
	case StateTypingForward, StatePausedBetween, StateBackspacing, StateFadingOut:
		return true
	}
	return false
}

// IsTerminal reports whether the state ends the animation.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateDestroyed
}

// phase identifies the step a pending timer will run.
type phase int

const (
	phaseNone phase = iota
	phaseBegin
	phaseType
	phasePauseEnd
	phaseTrailingPause
	phaseBackDelay
	phaseBackspace
	phaseFadeEnd
	phaseComplete
)

func (p phase) String() string {
	switch p {
	case phaseNone:
		return "none"
	case phaseBegin:
		return "begin"
	case phaseType:
		return "type"
	case phasePauseEnd:
		return "pause-end"
	case phaseTrailingPause:
		return "trailing-pause"
	case phaseBackDelay:
		return "back-delay"
	case phaseBackspace:
		return "backspace"
	case phaseFadeEnd:
		return "fade-end"
	case phaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}
