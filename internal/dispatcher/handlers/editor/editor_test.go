package editor_test

import (
	"context"
	"testing"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/dispatcher/handlers/editor"
	"github.com/dshills/keymode/internal/engine/buffer"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

type fixture struct {
	h   *editor.Handler
	buf *buffer.Buffer
	st  *execctx.State
}

func newFixture(text string, heads ...cursor.Position) *fixture {
	return newFixtureWith(text, nil, heads...)
}

func newFixtureWith(text string, opts []buffer.Option, heads ...cursor.Position) *fixture {
	buf := buffer.NewBufferFromString(text, opts...)
	sels := make([]cursor.Selection, len(heads))
	for i, p := range heads {
		sels[i] = cursor.Collapsed(p)
	}
	buf.SetSelections(sels)
	return &fixture{h: editor.NewHandler(), buf: buf, st: execctx.NewState(buf, nil)}
}

func (f *fixture) run(t *testing.T, name string) handler.Result {
	t.Helper()
	a, ok := f.h.Get(name)
	if !ok {
		t.Fatalf("action %q not registered", name)
	}
	res := a.Execute(execctx.New(context.Background(), f.st, f.buf))
	if res.IsError() {
		t.Fatalf("%s: %v", name, res.Error)
	}
	return res
}

func (f *fixture) selectRange(sels ...cursor.Selection) {
	f.buf.SetSelections(sels)
}

func (f *fixture) heads() []cursor.Position {
	var out []cursor.Position
	for _, s := range f.buf.Selections() {
		out = append(out, s.Head)
	}
	return out
}

func (f *fixture) expect(t *testing.T, text string, heads ...cursor.Position) {
	t.Helper()
	if got := f.buf.Text(); got != text {
		t.Errorf("text = %q, want %q", got, text)
	}
	got := f.heads()
	if len(got) != len(heads) {
		t.Fatalf("cursors = %v, want %v", got, heads)
	}
	for i := range heads {
		if got[i] != heads[i] {
			t.Errorf("cursor %d = %s, want %s", i, got[i], heads[i])
		}
	}
}

func linewise(s string) vim.RegisterEntry { return vim.RegisterEntry{Contents: s, Linewise: true} }
func charwise(s string) vim.RegisterEntry { return vim.RegisterEntry{Contents: s} }

// TestEditorHandlerNamespace verifies the Handler returns correct namespace.
func TestEditorHandlerNamespace(t *testing.T) {
	h := editor.NewHandler()
	if h.Namespace() != "editor" {
		t.Errorf("expected namespace 'editor', got %q", h.Namespace())
	}

	for _, name := range []string{
		editor.ActionPut, editor.ActionPutBefore, editor.ActionUndo,
		editor.ActionYankLine, editor.ActionYankToLineEnd, editor.ActionYankDeleteLine,
		editor.ActionDeleteLine, editor.ActionDeleteToLineEnd, editor.ActionDeleteChar,
		editor.ActionChangeLine, editor.ActionChangeToLineEnd,
		editor.ActionOpenBelow, editor.ActionOpenAbove,
		editor.ActionDeleteSelection, editor.ActionChangeSelection, editor.ActionYankSelection,
	} {
		if !h.CanHandle(name) {
			t.Errorf("CanHandle(%q) = false", name)
		}
	}
	if h.CanHandle("editor.indent") {
		t.Error("unexpected action editor.indent")
	}
}

func TestPut(t *testing.T) {
	tests := []struct {
		name   string
		action string
		text   string
		from   cursor.Position
		reg    vim.RegisterEntry
		want   string
		head   cursor.Position
	}{
		{"p linewise", editor.ActionPut, "a\nb\nc", cursor.Pos(0, 0), linewise("x"), "a\nx\nb\nc", cursor.Pos(1, 0)},
		{"p linewise last line", editor.ActionPut, "a\nb", cursor.Pos(1, 0), linewise("x"), "a\nb\nx", cursor.Pos(2, 0)},
		{"P linewise", editor.ActionPutBefore, "a\nb", cursor.Pos(1, 0), linewise("x"), "a\nx\nb", cursor.Pos(1, 0)},
		{"p charwise", editor.ActionPut, "abc", cursor.Pos(0, 1), charwise("XY"), "abXYc", cursor.Pos(0, 3)},
		{"P charwise", editor.ActionPutBefore, "abc", cursor.Pos(0, 1), charwise("XY"), "aXYbc", cursor.Pos(0, 2)},
		{"p on empty line", editor.ActionPut, "", cursor.Pos(0, 0), charwise("xy"), "xy", cursor.Pos(0, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.text, tc.from)
			f.st.Registers.Set('"', []vim.RegisterEntry{tc.reg})
			f.run(t, tc.action)
			f.expect(t, tc.want, tc.head)
		})
	}
}

func TestPutPerCursorEntries(t *testing.T) {
	f := newFixture("ab\ncd", cursor.Pos(0, 0), cursor.Pos(1, 0))
	f.st.Registers.Set('"', []vim.RegisterEntry{charwise("1"), charwise("2")})

	f.run(t, editor.ActionPut)
	f.expect(t, "a1b\nc2d", cursor.Pos(0, 1), cursor.Pos(1, 1))
}

func TestPutMissingEntrySkipsCursor(t *testing.T) {
	f := newFixture("ab\ncd", cursor.Pos(0, 0), cursor.Pos(1, 0))
	f.st.Registers.Set('"', []vim.RegisterEntry{charwise("1")})

	f.run(t, editor.ActionPut)
	f.expect(t, "a1b\ncd", cursor.Pos(0, 1), cursor.Pos(1, 0))
}

func TestPutEmptyCharwiseEntryMovesCursor(t *testing.T) {
	tests := []struct {
		name   string
		action string
		text   string
		from   cursor.Position
		head   cursor.Position
	}{
		{"p keeps column", editor.ActionPut, "abc", cursor.Pos(0, 1), cursor.Pos(0, 1)},
		{"p at line end", editor.ActionPut, "abc", cursor.Pos(0, 2), cursor.Pos(0, 2)},
		{"p on empty line", editor.ActionPut, "ab\n\ncd", cursor.Pos(1, 0), cursor.Pos(1, 0)},
		{"P steps left", editor.ActionPutBefore, "abc", cursor.Pos(0, 2), cursor.Pos(0, 1)},
		{"P stays on line", editor.ActionPutBefore, "ab\ncd", cursor.Pos(1, 0), cursor.Pos(1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.text, tc.from)
			f.st.Registers.Set('"', []vim.RegisterEntry{charwise("")})
			if res := f.run(t, tc.action); res.Status != handler.StatusOK {
				t.Errorf("status = %s, want ok", res.Status)
			}
			f.expect(t, tc.text, tc.head)
			if f.buf.CanUndo() {
				t.Error("moving the cursor must not record an undo step")
			}
		})
	}
}

func TestPutEmptyCharwiseEntryOverSelection(t *testing.T) {
	f := newFixture("hello world", cursor.Pos(0, 0))
	f.st.Modes.EnterVisual()
	f.selectRange(cursor.NewSelection(cursor.Pos(0, 6), cursor.Pos(0, 11)))
	f.st.Registers.Set('"', []vim.RegisterEntry{charwise("")})

	f.run(t, editor.ActionPut)
	f.expect(t, "hello ", cursor.Pos(0, 5))
	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestPutEmptyRegisterIsNoOp(t *testing.T) {
	f := newFixture("ab", cursor.Pos(0, 0))
	if res := f.run(t, editor.ActionPut); res.Status != handler.StatusNoOp {
		t.Errorf("status = %s, want no-op", res.Status)
	}
}

func TestPutOverVisualSelection(t *testing.T) {
	f := newFixture("hello world", cursor.Pos(0, 0))
	f.st.Modes.EnterVisual()
	f.selectRange(cursor.NewSelection(cursor.Pos(0, 0), cursor.Pos(0, 5)))
	f.st.Registers.Set('"', []vim.RegisterEntry{charwise("bye")})

	f.run(t, editor.ActionPut)
	f.expect(t, "bye world", cursor.Pos(0, 2))
	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
	if e, _ := f.st.Registers.Entry('"', 0); e.Contents != "bye" {
		t.Errorf("replaced text must not be written, register = %+v", e)
	}
}

func TestPutLinewiseOverVisualSelection(t *testing.T) {
	f := newFixture("ab cd", cursor.Pos(0, 1))
	f.st.Modes.EnterVisual()
	f.st.Registers.Set('"', []vim.RegisterEntry{linewise("X")})

	f.run(t, editor.ActionPut)
	f.expect(t, "a\nX\n cd", cursor.Pos(1, 0))
}

func TestPutOverVisualLineSelection(t *testing.T) {
	f := newFixture("a\nb\nc", cursor.Pos(1, 0))
	f.st.Modes.EnterVisualLine()
	f.st.Registers.Set('"', []vim.RegisterEntry{linewise("X\nY")})

	f.run(t, editor.ActionPut)
	f.expect(t, "a\nX\nY\nc", cursor.Pos(1, 0))
	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestYankLine(t *testing.T) {
	f := newFixture("foo\nbar", cursor.Pos(0, 1), cursor.Pos(1, 2))
	f.run(t, editor.ActionYankLine)

	for _, reg := range []rune{'"', '0'} {
		got := f.st.Registers.Get(reg)
		if len(got) != 2 || got[0] != linewise("foo") || got[1] != linewise("bar") {
			t.Errorf("register %c = %+v", reg, got)
		}
	}
	f.expect(t, "foo\nbar", cursor.Pos(0, 1), cursor.Pos(1, 2))
}

func TestYankToLineEnd(t *testing.T) {
	f := newFixture("foo bar", cursor.Pos(0, 4))
	f.run(t, editor.ActionYankToLineEnd)

	if e, _ := f.st.Registers.Entry('"', 0); e != charwise("bar") {
		t.Errorf("register = %+v", e)
	}
}

func TestYankDeleteLine(t *testing.T) {
	f := newFixture("a\nb\nc", cursor.Pos(1, 0))
	f.run(t, editor.ActionYankDeleteLine)

	f.expect(t, "a\nc", cursor.Pos(1, 0))
	if e, _ := f.st.Registers.Entry('"', 0); e != linewise("b") {
		t.Errorf("register = %+v", e)
	}
}

func TestDeleteCommandsLeaveRegisters(t *testing.T) {
	tests := []struct {
		name   string
		action string
		text   string
		from   cursor.Position
		want   string
		head   cursor.Position
	}{
		{"dd", editor.ActionDeleteLine, "a\n  b\nc", cursor.Pos(0, 0), "  b\nc", cursor.Pos(0, 2)},
		{"dd last line", editor.ActionDeleteLine, "a\nb", cursor.Pos(1, 0), "a", cursor.Pos(0, 0)},
		{"D", editor.ActionDeleteToLineEnd, "hello", cursor.Pos(0, 2), "he", cursor.Pos(0, 1)},
		{"x", editor.ActionDeleteChar, "abc", cursor.Pos(0, 2), "ab", cursor.Pos(0, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.text, tc.from)
			f.st.Registers.Set('"', []vim.RegisterEntry{charwise("keep")})
			f.run(t, tc.action)
			f.expect(t, tc.want, tc.head)
			if e, _ := f.st.Registers.Entry('"', 0); e.Contents != "keep" {
				t.Errorf("register = %+v", e)
			}
		})
	}
}

func TestInsertEndingActions(t *testing.T) {
	tests := []struct {
		name   string
		action string
		text   string
		from   cursor.Position
		want   string
		head   cursor.Position
	}{
		{"cc", editor.ActionChangeLine, "  foo\nbar", cursor.Pos(0, 4), "  \nbar", cursor.Pos(0, 2)},
		{"C", editor.ActionChangeToLineEnd, "hello", cursor.Pos(0, 2), "he", cursor.Pos(0, 2)},
		{"o", editor.ActionOpenBelow, "  foo", cursor.Pos(0, 0), "  foo\n  ", cursor.Pos(1, 2)},
		{"O", editor.ActionOpenAbove, "  foo", cursor.Pos(0, 3), "  \n  foo", cursor.Pos(0, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.text, tc.from)
			f.run(t, tc.action)
			f.expect(t, tc.want, tc.head)
			if f.st.Mode() != mode.Insert {
				t.Errorf("mode = %s, want insert", f.st.Mode())
			}
		})
	}
}

func TestUndo(t *testing.T) {
	f := newFixture("abc", cursor.Pos(0, 2))
	f.run(t, editor.ActionDeleteChar)
	f.run(t, editor.ActionUndo)
	f.expect(t, "abc", cursor.Pos(0, 2))

	// nothing left to undo
	f.run(t, editor.ActionUndo)
	f.expect(t, "abc", cursor.Pos(0, 2))
}

func TestUndoLeavesVisualMode(t *testing.T) {
	f := newFixture("abc", cursor.Pos(0, 0))
	f.st.Modes.EnterVisual()
	f.run(t, editor.ActionUndo)

	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestDeleteSelection(t *testing.T) {
	f := newFixture("hello world", cursor.Pos(0, 0))
	f.st.Modes.EnterVisual()
	f.selectRange(cursor.NewSelection(cursor.Pos(0, 0), cursor.Pos(0, 5)))

	f.run(t, editor.ActionDeleteSelection)
	f.expect(t, " world", cursor.Pos(0, 0))
	if e, _ := f.st.Registers.Entry('"', 0); e != charwise("hello") {
		t.Errorf("register = %+v", e)
	}
	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestDeleteVisualLineSelection(t *testing.T) {
	f := newFixture("a\nb\nc", cursor.Pos(1, 0))
	f.st.Modes.EnterVisualLine()

	f.run(t, editor.ActionDeleteSelection)
	f.expect(t, "a\nc", cursor.Pos(1, 0))
	if e, _ := f.st.Registers.Entry('"', 0); e != linewise("b") {
		t.Errorf("register = %+v", e)
	}
}

func TestChangeSelection(t *testing.T) {
	f := newFixture("hello world", cursor.Pos(0, 6))
	f.st.Modes.EnterVisual()
	f.selectRange(cursor.NewSelection(cursor.Pos(0, 6), cursor.Pos(0, 11)))

	f.run(t, editor.ActionChangeSelection)
	f.expect(t, "hello ", cursor.Pos(0, 6))
	if f.st.Mode() != mode.Insert {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestYankBackwardSelection(t *testing.T) {
	f := newFixture("hello", cursor.Pos(0, 4))
	f.st.Modes.EnterVisual()
	f.selectRange(cursor.NewSelection(cursor.Pos(0, 4), cursor.Pos(0, 1)))

	f.run(t, editor.ActionYankSelection)
	f.expect(t, "hello", cursor.Pos(0, 1))
	if e, _ := f.st.Registers.Entry('0', 0); e != charwise("ell") {
		t.Errorf("register = %+v", e)
	}
	if f.st.Mode() != mode.Normal {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestPutWithAsyncSurface(t *testing.T) {
	f := newFixtureWith("ab\ncd", []buffer.Option{buffer.WithAsync(true)}, cursor.Pos(0, 0), cursor.Pos(1, 1))
	f.st.Registers.Set('"', []vim.RegisterEntry{linewise("x"), linewise("y")})

	f.run(t, editor.ActionPut)
	f.expect(t, "ab\nx\ncd\ny", cursor.Pos(1, 0), cursor.Pos(3, 0))
}
