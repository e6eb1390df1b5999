package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// ModuleName is the global table scripts use to reach the session.
const ModuleName = "keymode"

// module returns the keymode API. Lines are 1-based as in Lua; columns
// are 0-based rune offsets.
func (e *Engine) module() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"mode":         e.luaMode,
		"enter":        e.luaEnter,
		"arg":          e.luaArg,
		"line_count":   e.luaLineCount,
		"line":         e.luaLine,
		"cursors":      e.luaCursors,
		"set_cursors":  e.luaSetCursors,
		"insert":       e.luaInsert,
		"replace_line": e.luaReplaceLine,
		"register":     e.luaRegister,
		"set_register": e.luaSetRegister,
		"run":          e.luaRun,
	}
}

// ctx returns the context of the running action, raising a Lua error when
// the API is used outside of one.
func (e *Engine) ctx(L *lua.LState) *execctx.ExecutionContext {
	if e.current == nil {
		L.RaiseError("keymode API used outside of an action")
	}
	return e.current
}

func (e *Engine) luaMode(L *lua.LState) int {
	L.Push(lua.LString(e.ctx(L).Mode().String()))
	return 1
}

func (e *Engine) luaEnter(L *lua.LState) int {
	ec := e.ctx(L)
	m, err := mode.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	switch m {
	case mode.Normal:
		ec.State.Modes.EnterNormal()
	case mode.Insert:
		ec.State.Modes.EnterInsert()
	case mode.Visual:
		ec.State.Modes.EnterVisual()
	case mode.VisualLine:
		ec.State.Modes.EnterVisualLine()
	}
	return 0
}

func (e *Engine) luaArg(L *lua.LState) int {
	ec := e.ctx(L)
	if ec.Arg == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(string(ec.Arg)))
	return 1
}

func (e *Engine) luaLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.ctx(L).Surface.LineCount()))
	return 1
}

func (e *Engine) luaLine(L *lua.LState) int {
	s := e.ctx(L).Surface
	n := L.CheckInt(1)
	if n < 1 || n > s.LineCount() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(s.LineText(n - 1)))
	return 1
}

func (e *Engine) luaCursors(L *lua.LState) int {
	sels := e.ctx(L).Surface.Selections()
	tbl := L.CreateTable(len(sels), 0)
	for _, s := range sels {
		c := L.CreateTable(0, 2)
		c.RawSetString("line", lua.LNumber(s.Head.Line+1))
		c.RawSetString("col", lua.LNumber(s.Head.Col))
		tbl.Append(c)
	}
	L.Push(tbl)
	return 1
}

func (e *Engine) luaSetCursors(L *lua.LState) int {
	s := e.ctx(L).Surface
	tbl := L.CheckTable(1)

	var sels []cursor.Selection
	var bad error
	tbl.ForEach(func(_, v lua.LValue) {
		c, ok := v.(*lua.LTable)
		if !ok {
			bad = fmt.Errorf("cursor must be a table, got %s", v.Type())
			return
		}
		line, lok := c.RawGetString("line").(lua.LNumber)
		col, cok := c.RawGetString("col").(lua.LNumber)
		if !lok || !cok {
			bad = fmt.Errorf("cursor needs numeric line and col")
			return
		}
		sels = append(sels, cursor.Collapsed(cursor.Pos(int(line)-1, int(col))))
	})
	if bad != nil {
		L.ArgError(1, bad.Error())
		return 0
	}
	if len(sels) == 0 {
		L.ArgError(1, "at least one cursor is required")
		return 0
	}
	s.SetSelections(sels)
	return 0
}

// luaInsert inserts text at every cursor in one batched edit and moves each
// cursor to the end of its insertion.
func (e *Engine) luaInsert(L *lua.LState) int {
	ec := e.ctx(L)
	text := L.CheckString(1)
	sels := ec.Surface.Selections()

	res, err := ec.Edit(func(b execctx.EditBuilder) {
		for _, s := range sels {
			b.Insert(s.Head, text)
		}
	})
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	out := make([]cursor.Selection, len(res.Ranges))
	for i, r := range res.Ranges {
		out[i] = cursor.Collapsed(r.End)
	}
	if len(out) > 0 {
		ec.Surface.SetSelections(out)
	}
	return 0
}

func (e *Engine) luaReplaceLine(L *lua.LState) int {
	ec := e.ctx(L)
	n := L.CheckInt(1)
	text := L.CheckString(2)
	if n < 1 || n > ec.Surface.LineCount() {
		L.ArgError(1, fmt.Sprintf("line %d out of range", n))
		return 0
	}
	line := n - 1
	r := cursor.Range{Start: cursor.Pos(line, 0), End: cursor.Pos(line, ec.Surface.LineLength(line))}
	if _, err := ec.Edit(func(b execctx.EditBuilder) { b.Replace(r, text) }); err != nil {
		L.RaiseError("replace_line: %v", err)
	}
	return 0
}

func registerName(L *lua.LState, n int) rune {
	name := L.OptString(n, string(vim.DefaultRegister))
	r := []rune(name)
	if len(r) != 1 || !vim.IsValidRegister(r[0]) {
		L.ArgError(n, fmt.Sprintf("invalid register %q", name))
	}
	return r[0]
}

// luaRegister returns the first entry of a register and whether it is
// linewise, or nil when the register is empty.
func (e *Engine) luaRegister(L *lua.LState) int {
	ec := e.ctx(L)
	entry, ok := ec.State.Registers.Entry(registerName(L, 1), 0)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(entry.Contents))
	L.Push(lua.LBool(entry.Linewise))
	return 2
}

func (e *Engine) luaSetRegister(L *lua.LState) int {
	ec := e.ctx(L)
	name := registerName(L, 1)
	text := L.CheckString(2)
	linewise := L.OptBool(3, false)
	ec.State.Registers.Set(name, []vim.RegisterEntry{{Contents: text, Linewise: linewise}})
	return 0
}

// luaRun executes a registered action on the running context and returns
// its status.
func (e *Engine) luaRun(L *lua.LState) int {
	ec := e.ctx(L)
	name := L.CheckString(1)
	if e.lookup == nil {
		L.RaiseError("no actions available")
		return 0
	}
	a, ok := e.lookup(name)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown action %s", name))
		return 0
	}
	if sa, ok := a.(*scriptAction); ok && sa.engine == e {
		L.RaiseError("scripted action %s cannot be run from a script", name)
		return 0
	}
	res := a.Execute(ec)
	if res.IsError() {
		L.RaiseError("%s: %v", name, res.Error)
		return 0
	}
	L.Push(lua.LString(res.Status.String()))
	return 1
}
