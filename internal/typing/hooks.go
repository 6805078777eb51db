package typing

// Hooks are lifecycle callbacks. Every field is optional. Hooks run
// synchronously on the engine goroutine and may call the engine's public
// methods.
type Hooks struct {
	// OnBegin runs once per construction or reset, before typing starts.
	OnBegin func(t *Typed)

	// OnComplete runs once when every string has been typed.
	OnComplete func(t *Typed)

	// PreStringTyped runs before the first character of each string.
	PreStringTyped func(arrayPos int, t *Typed)

	// OnStringTyped runs after each string is typed.
	OnStringTyped func(arrayPos int, t *Typed)

	// OnLastStringBackspaced runs when the last string of a pass is gone.
	OnLastStringBackspaced func(t *Typed)

	// OnTypingPaused runs when an embedded pause begins.
	OnTypingPaused func(arrayPos int, t *Typed)

	// OnTypingResumed runs when an embedded pause ends.
	OnTypingResumed func(arrayPos int, t *Typed)

	// OnReset runs after Reset.
	OnReset func(t *Typed)

	// OnStop runs after Stop.
	OnStop func(arrayPos int, t *Typed)

	// OnStart runs after Start.
	OnStart func(arrayPos int, t *Typed)

	// OnDestroy runs after Destroy.
	OnDestroy func(t *Typed)
}

// ChainHooks combines hook sets. Each callback runs the non-nil callbacks
// of every set in order.
func ChainHooks(sets ...Hooks) Hooks {
	var h Hooks

	h.OnBegin = chainInstance(sets, func(s Hooks) func(*Typed) { return s.OnBegin })
	h.OnComplete = chainInstance(sets, func(s Hooks) func(*Typed) { return s.OnComplete })
	h.OnLastStringBackspaced = chainInstance(sets, func(s Hooks) func(*Typed) { return s.OnLastStringBackspaced })
	h.OnReset = chainInstance(sets, func(s Hooks) func(*Typed) { return s.OnReset })
	h.OnDestroy = chainInstance(sets, func(s Hooks) func(*Typed) { return s.OnDestroy })

	h.PreStringTyped = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.PreStringTyped })
	h.OnStringTyped = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.OnStringTyped })
	h.OnTypingPaused = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.OnTypingPaused })
	h.OnTypingResumed = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.OnTypingResumed })
	h.OnStop = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.OnStop })
	h.OnStart = chainPos(sets, func(s Hooks) func(int, *Typed) { return s.OnStart })

	return h
}

func chainInstance(sets []Hooks, pick func(Hooks) func(*Typed)) func(*Typed) {
	var fns []func(*Typed)
	for _, s := range sets {
		if fn := pick(s); fn != nil {
			fns = append(fns, fn)
		}
	}
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(t *Typed) {
		for _, fn := range fns {
			fn(t)
		}
	}
}

func chainPos(sets []Hooks, pick func(Hooks) func(int, *Typed)) func(int, *Typed) {
	var fns []func(int, *Typed)
	for _, s := range sets {
		if fn := pick(s); fn != nil {
			fns = append(fns, fn)
		}
	}
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(pos int, t *Typed) {
		for _, fn := range fns {
			fn(pos, t)
		}
	}
}
