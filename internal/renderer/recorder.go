package renderer

import (
	"sync"
)

// CallKind identifies a recorded sink call.
type CallKind int

const (
	CallSetText CallKind = iota
	CallSetCursorVisible
	CallSetCursorBlink
	CallSetFadeClass
)

// String returns the sink method name.
func (k CallKind) String() string {
	switch k {
	case CallSetText:
		return "SetText"
	case CallSetCursorVisible:
		return "SetCursorVisible"
	case CallSetCursorBlink:
		return "SetCursorBlink"
	case CallSetFadeClass:
		return "SetFadeClass"
	default:
		return "Unknown"
	}
}

// Call is one recorded sink call.
type Call struct {
	Kind CallKind
	Text string
	On   bool
}

// Recorder is a sink that records every call. It is safe for concurrent
// use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	text          string
	cursorVisible bool
	cursorBlink   bool
	fade          bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, c)
	switch c.Kind {
	case CallSetText:
		r.text = c.Text
	case CallSetCursorVisible:
		r.cursorVisible = c.On
	case CallSetCursorBlink:
		r.cursorBlink = c.On
	case CallSetFadeClass:
		r.fade = c.On
	}
}

// SetText records the text.
func (r *Recorder) SetText(raw string) {
	r.record(Call{Kind: CallSetText, Text: raw})
}

// SetCursorVisible records cursor visibility.
func (r *Recorder) SetCursorVisible(visible bool) {
	r.record(Call{Kind: CallSetCursorVisible, On: visible})
}

// SetCursorBlink records cursor blinking.
func (r *Recorder) SetCursorBlink(blinking bool) {
	r.record(Call{Kind: CallSetCursorBlink, On: blinking})
}

// SetFadeClass records the fade style.
func (r *Recorder) SetFadeClass(on bool) {
	r.record(Call{Kind: CallSetFadeClass, On: on})
}

// Calls returns a copy of every recorded call.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Texts returns the argument of every SetText call in order.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var texts []string
	for _, c := range r.calls {
		if c.Kind == CallSetText {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

// TextsSince returns the SetText arguments recorded after the first n
// calls.
func (r *Recorder) TextsSince(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var texts []string
	for i := n; i < len(r.calls); i++ {
		if r.calls[i].Kind == CallSetText {
			texts = append(texts, r.calls[i].Text)
		}
	}
	return texts
}

// Text returns the last text set.
func (r *Recorder) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

// CursorVisible returns the last cursor visibility.
func (r *Recorder) CursorVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursorVisible
}

// CursorBlink returns the last blink state.
func (r *Recorder) CursorBlink() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursorBlink
}

// Faded returns whether the fade style is applied.
func (r *Recorder) Faded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fade
}

// Clear forgets recorded calls but keeps the current state.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
