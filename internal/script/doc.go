// Package script runs user Lua scripts as typing lifecycle hooks.
//
// Scripts execute in a sandboxed gopher-lua state with only the base,
// table, string and math libraries. A script defines any of the hook
// functions below as globals:
//
//	on_begin()                   on_complete()
//	pre_string_typed(pos)        on_string_typed(pos)
//	on_last_string_backspaced()  on_reset()
//	on_typing_paused(pos)        on_typing_resumed(pos)
//	on_stop(pos)                 on_start(pos)
//	on_destroy()
//
// and controls the engine through the typed module:
//
//	typed.start()  typed.stop()  typed.toggle()
//	typed.reset(restart)  typed.destroy()
//	typed.str_pos()  typed.array_pos()  typed.cur_loop()
//	typed.state()  typed.text()  typed.log(msg)
//
// Errors raised by a hook are logged and do not stop the animation.
//
// A State is not safe for concurrent use. Hooks run on the engine
// goroutine, and so must every other call.
package script
