// Package renderer provides the render sinks the typing engine draws
// through.
//
// Sinks:
//   - TextView draws into a rectangle of a backend.Backend (tcell or the
//     in-memory NullBackend), with cursor blink and fade animation
//   - TitleSink types into the terminal window title
//   - Recorder records every call for tests and dry runs
//   - Tee fans calls out to several sinks
//
// The stream subpackage renders to a plain io.Writer.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	term.Init()
//	view := renderer.NewTextView(term, renderer.DefaultTextViewOptions())
//	typed, _ := typing.New(view, opts, typing.WithScheduler(loop))
package renderer
