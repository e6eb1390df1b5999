package lua_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymode/internal/dispatcher"
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	cursorhandler "github.com/dshills/keymode/internal/dispatcher/handlers/cursor"
	"github.com/dshills/keymode/internal/engine/buffer"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
	"github.com/dshills/keymode/internal/plugin/lua"
)

type fixture struct {
	engine *lua.Engine
	disp   *dispatcher.Dispatcher
	buf    *buffer.Buffer
	st     *execctx.State
}

func newFixture(t *testing.T, text string, heads ...cursor.Position) *fixture {
	t.Helper()
	d := dispatcher.NewWithDefaults()
	d.RegisterNamespace(cursorhandler.NewHandler())

	e := lua.NewEngine(d.Lookup, lua.WithExecutionTimeout(time.Second))
	t.Cleanup(func() { e.Close() })

	buf := buffer.NewBufferFromString(text)
	if len(heads) > 0 {
		sels := make([]cursor.Selection, len(heads))
		for i, p := range heads {
			sels[i] = cursor.Collapsed(p)
		}
		buf.SetSelections(sels)
	}
	return &fixture{engine: e, disp: d, buf: buf, st: execctx.NewState(buf, nil)}
}

func (f *fixture) add(t *testing.T, name, code string) {
	t.Helper()
	require.NoError(t, f.engine.Add(name, code))
	f.disp.RegisterNamespace(f.engine)
}

func (f *fixture) run(name string) handler.Result {
	return f.disp.Dispatch(context.Background(), name, f.st, f.buf, 0)
}

func (f *fixture) heads() []cursor.Position {
	var out []cursor.Position
	for _, s := range f.buf.Selections() {
		out = append(out, s.Head)
	}
	return out
}

func TestInsertAtEveryCursor(t *testing.T) {
	f := newFixture(t, "one\ntwo", cursor.Pos(0, 0), cursor.Pos(1, 0))
	f.add(t, "lua.prefix", `keymode.insert("> ")`)

	res := f.run("lua.prefix")
	require.False(t, res.IsError(), "%v", res.Error)
	assert.Equal(t, "> one\n> two", f.buf.Text())
	assert.Equal(t, []cursor.Position{cursor.Pos(0, 2), cursor.Pos(1, 2)}, f.heads())
}

func TestReadSessionState(t *testing.T) {
	f := newFixture(t, "alpha\nbeta", cursor.Pos(1, 2))
	f.add(t, "lua.inspect", `
		local c = keymode.cursors()
		local text = keymode.mode() .. ":" .. keymode.line_count() .. ":" ..
			keymode.line(c[1].line) .. ":" .. c[1].col
		keymode.set_register("a", text)
	`)

	res := f.run("lua.inspect")
	require.False(t, res.IsError(), "%v", res.Error)

	entry, ok := f.st.Registers.Entry('a', 0)
	require.True(t, ok)
	assert.Equal(t, "normal:2:beta:2", entry.Contents)
	assert.False(t, entry.Linewise)
}

func TestReplaceLineAndCursors(t *testing.T) {
	f := newFixture(t, "first\nsecond\nthird")
	f.add(t, "lua.upper", `
		local n = keymode.line_count()
		keymode.replace_line(n, string.upper(keymode.line(n)))
		keymode.set_cursors({{line = n, col = 1}, {line = 1, col = 0}})
	`)

	res := f.run("lua.upper")
	require.False(t, res.IsError(), "%v", res.Error)
	assert.Equal(t, "first\nsecond\nTHIRD", f.buf.Text())
	assert.ElementsMatch(t, []cursor.Position{cursor.Pos(2, 1), cursor.Pos(0, 0)}, f.heads())
}

func TestRegisters(t *testing.T) {
	f := newFixture(t, "x")
	f.st.Registers.Set(vim.DefaultRegister, []vim.RegisterEntry{{Contents: "line", Linewise: true}})
	f.add(t, "lua.copy", `
		local text, linewise = keymode.register()
		keymode.set_register("b", text .. "!", linewise)
		if keymode.register("c") ~= nil then error("c should be empty") end
	`)

	res := f.run("lua.copy")
	require.False(t, res.IsError(), "%v", res.Error)
	entry, ok := f.st.Registers.Entry('b', 0)
	require.True(t, ok)
	assert.Equal(t, vim.RegisterEntry{Contents: "line!", Linewise: true}, entry)
}

func TestRunAndEnter(t *testing.T) {
	f := newFixture(t, "hello", cursor.Pos(0, 0))
	f.add(t, "lua.endInsert", `
		local status = keymode.run("cursor.lineEnd")
		keymode.set_register("s", status)
		keymode.enter("insert")
	`)

	res := f.run("lua.endInsert")
	require.False(t, res.IsError(), "%v", res.Error)
	assert.Equal(t, []cursor.Position{cursor.Pos(0, 4)}, f.heads())
	assert.Equal(t, mode.Insert, f.st.Mode())
	entry, _ := f.st.Registers.Entry('s', 0)
	assert.Equal(t, "ok", entry.Contents)
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"raised", `error("boom")`},
		{"unknown action", `keymode.run("no.such")`},
		{"bad mode", `keymode.enter("replace")`},
		{"bad register", `keymode.register("??")`},
		{"line out of range", `keymode.replace_line(9, "x")`},
		{"no cursors", `keymode.set_cursors({})`},
		{"nested script", `keymode.run("lua.nested")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "text")
			f.add(t, "lua.nested", tt.code)

			res := f.run("lua.nested")
			require.True(t, res.IsError())
			assert.ErrorIs(t, res.Error, lua.ErrScript)
			assert.Equal(t, "text", f.buf.Text())
		})
	}
}

func TestCompileError(t *testing.T) {
	f := newFixture(t, "")
	assert.Error(t, f.engine.Add("lua.broken", `this is not lua`))
	assert.Error(t, f.engine.Add(" ", `return`))
	assert.Empty(t, f.engine.Actions())
}

func TestSandbox(t *testing.T) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os"} {
		t.Run(name, func(t *testing.T) {
			s := lua.NewState()
			defer s.Close()
			require.NoError(t, s.DoString(context.Background(), `x = `+name))
			assert.Equal(t, "nil", s.L.GetGlobal("x").Type().String())
		})
	}
}

func TestExecutionTimeout(t *testing.T) {
	s := lua.NewState(lua.WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(context.Background(), `while true do end`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lua.ErrExecutionTimeout))
}

func TestClosedState(t *testing.T) {
	s := lua.NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Compile("x", "return")
	assert.ErrorIs(t, err, lua.ErrStateClosed)
	assert.ErrorIs(t, s.DoString(context.Background(), "return"), lua.ErrStateClosed)
}

func TestActionsSortedAndRemovable(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.engine.Add("lua.b", "return"))
	require.NoError(t, f.engine.Add("lua.a", "return"))

	var names []string
	for _, a := range f.engine.Actions() {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"lua.a", "lua.b"}, names)

	assert.True(t, f.engine.Remove("lua.a"))
	assert.False(t, f.engine.Remove("lua.a"))
	assert.Len(t, f.engine.Actions(), 1)
}
