// Package lua runs user-defined actions written in Lua.
//
// Snippets come from the keymap section of the configuration file. Each
// one is compiled once into an action that the dispatcher can run like any
// built-in. Scripts run in a sandboxed gopher-lua state with only the
// base, table, string and math libraries, under an execution timeout.
//
// Scripts reach the session through the keymode table:
//
//	keymode.mode()                    -- "normal", "insert", ...
//	keymode.enter("insert")
//	keymode.arg()                     -- captured char or nil
//	keymode.line_count()
//	keymode.line(n)                   -- 1-based
//	keymode.cursors()                 -- {{line=1, col=0}, ...}
//	keymode.set_cursors(tbl)
//	keymode.insert(text)              -- at every cursor
//	keymode.replace_line(n, text)
//	keymode.register(name)            -- contents, linewise
//	keymode.set_register(name, text, linewise)
//	keymode.run("cursor.lineEnd")
package lua
