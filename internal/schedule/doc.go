// Package schedule provides the cancellable timers the typing engine runs on.
//
// The engine is single-threaded: every state transition happens either in
// a timer callback or inside a public method call, and both run on the
// same owner goroutine. The package offers three ways to get there:
//
//   - Loop is a goroutine that executes posted functions in order. Its
//     timers post their callbacks to the loop and are dropped there if
//     they were stopped first, so a stopped timer never fires.
//   - Posted adapts any "run this on the owner goroutine" mechanism, such
//     as a bubbletea program's message queue, to the Scheduler interface.
//   - Manual is a virtual clock for tests. Nothing fires until the test
//     advances time, and callbacks run synchronously in time order.
package schedule
