package operator_test

import (
	"context"
	"testing"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/dispatcher/handlers/operator"
	"github.com/dshills/keymode/internal/engine/buffer"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

type fixture struct {
	buf *buffer.Buffer
	st  *execctx.State
}

func newFixture(text string, opts []buffer.Option, heads ...cursor.Position) *fixture {
	buf := buffer.NewBufferFromString(text, opts...)
	sels := make([]cursor.Selection, len(heads))
	for i, p := range heads {
		sels[i] = cursor.Collapsed(p)
	}
	buf.SetSelections(sels)
	return &fixture{buf: buf, st: execctx.NewState(buf, nil)}
}

func (f *fixture) apply(t *testing.T, opKey rune, motion string, arg rune) handler.Result {
	t.Helper()
	a, ok := operator.NewCompiler().Compile(vim.GetOperator(opKey), vim.GetMotion(motion), arg, f.st.Mode())
	if !ok {
		t.Fatalf("compile %c %s failed", opKey, motion)
	}
	return a.Execute(execctx.New(context.Background(), f.st, f.buf))
}

func (f *fixture) heads() []cursor.Position {
	var out []cursor.Position
	for _, s := range f.buf.Selections() {
		out = append(out, s.Head)
	}
	return out
}

func TestCompile(t *testing.T) {
	c := operator.NewCompiler()
	d, w := vim.GetOperator('d'), vim.GetMotion("wordForward")

	a, ok := c.Compile(d, w, 0, mode.Normal)
	if !ok {
		t.Fatal("dw should compile in normal mode")
	}
	if a.Name() != "operator.delete.wordForward" {
		t.Errorf("name = %q", a.Name())
	}

	tests := []struct {
		name string
		op   *vim.Operator
		mo   *vim.Motion
		arg  rune
		m    mode.Mode
	}{
		{"visual mode", d, w, 0, mode.Visual},
		{"insert mode", d, w, 0, mode.Insert},
		{"no operator", nil, w, 0, mode.Normal},
		{"no motion", d, nil, 0, mode.Normal},
		{"missing char", d, vim.GetMotion("findChar"), 0, mode.Normal},
	}
	for _, tc := range tests {
		if _, ok := c.Compile(tc.op, tc.mo, tc.arg, tc.m); ok {
			t.Errorf("%s: expected compile to fail", tc.name)
		}
	}
}

func TestDeleteCharwise(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from     cursor.Position
		motion   string
		arg      rune
		want     string
		wantHead cursor.Position
		wantReg  string
	}{
		{"dw", "foo bar baz", cursor.Pos(0, 0), "wordForward", 0, "bar baz", cursor.Pos(0, 0), "foo "},
		{"dw at line end", "foo bar\nbaz", cursor.Pos(0, 4), "wordForward", 0, "foo \nbaz", cursor.Pos(0, 3), "bar"},
		{"de", "foo bar", cursor.Pos(0, 0), "wordEnd", 0, " bar", cursor.Pos(0, 0), "foo"},
		{"db", "foo bar", cursor.Pos(0, 4), "wordBackward", 0, "bar", cursor.Pos(0, 0), "foo "},
		{"d$", "foo bar", cursor.Pos(0, 4), "lineEnd", 0, "foo ", cursor.Pos(0, 3), "bar"},
		{"df", "a-b-c", cursor.Pos(0, 0), "findChar", '-', "b-c", cursor.Pos(0, 0), "a-"},
		{"dt", "a-b-c", cursor.Pos(0, 0), "tillChar", '-', "-b-c", cursor.Pos(0, 0), "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.text, nil, tc.from)
			if res := f.apply(t, 'd', tc.motion, tc.arg); !res.IsOK() {
				t.Fatalf("result = %s %v", res.Status, res.Error)
			}
			if got := f.buf.Text(); got != tc.want {
				t.Errorf("text = %q, want %q", got, tc.want)
			}
			if got := f.heads()[0]; got != tc.wantHead {
				t.Errorf("cursor = %s, want %s", got, tc.wantHead)
			}
			if e, ok := f.st.Registers.Entry('"', 0); !ok || e.Contents != tc.wantReg || e.Linewise {
				t.Errorf("register = %+v, want %q", e, tc.wantReg)
			}
		})
	}
}

func TestDeleteLinewise(t *testing.T) {
	f := newFixture("a\nb\nc", nil, cursor.Pos(0, 0))
	f.apply(t, 'd', "down", 0)

	if got := f.buf.Text(); got != "c" {
		t.Errorf("text = %q", got)
	}
	e, _ := f.st.Registers.Entry('"', 0)
	if e != (vim.RegisterEntry{Contents: "a\nb", Linewise: true}) {
		t.Errorf("register = %+v", e)
	}
}

func TestDeleteToDocumentEnd(t *testing.T) {
	f := newFixture("  a\nb\nc", nil, cursor.Pos(1, 0))
	f.apply(t, 'd', "documentEnd", 0)

	if got := f.buf.Text(); got != "  a" {
		t.Errorf("text = %q", got)
	}
	if got := f.heads()[0]; got != cursor.Pos(0, 2) {
		t.Errorf("cursor should land on the first non-blank, got %s", got)
	}
}

func TestUnresolvedMotionAppliesNothing(t *testing.T) {
	f := newFixture("a\nb", nil, cursor.Pos(1, 0))
	f.st.Registers.Set('"', []vim.RegisterEntry{{Contents: "keep"}})

	res := f.apply(t, 'd', "down", 0)
	if res.Status != handler.StatusNoOp {
		t.Errorf("status = %s, want no-op", res.Status)
	}
	if f.buf.Text() != "a\nb" || f.buf.CanUndo() {
		t.Error("no edit should be applied")
	}
	if e, _ := f.st.Registers.Entry('"', 0); e.Contents != "keep" {
		t.Errorf("register should be untouched, got %+v", e)
	}
}

func TestDeleteSkipsUnresolvedCursor(t *testing.T) {
	f := newFixture("a-b\nxyz", nil, cursor.Pos(0, 0), cursor.Pos(1, 0))
	f.apply(t, 'd', "findChar", '-')

	if got := f.buf.Text(); got != "b\nxyz" {
		t.Errorf("text = %q", got)
	}
	entries := f.st.Registers.Get('"')
	if len(entries) != 2 || entries[0].Contents != "a-" || entries[1].Contents != "" {
		t.Errorf("entries should stay index aligned, got %+v", entries)
	}
	got := f.heads()
	if len(got) != 2 || got[1] != cursor.Pos(1, 0) {
		t.Errorf("skipped cursor should keep its place, got %v", got)
	}
}

func TestYank(t *testing.T) {
	f := newFixture("ab cd\nef gh", nil, cursor.Pos(0, 0), cursor.Pos(1, 3))
	f.apply(t, 'y', "wordEnd", 0)

	if f.buf.Text() != "ab cd\nef gh" {
		t.Errorf("yank must not change text, got %q", f.buf.Text())
	}
	for _, reg := range []rune{'"', '0'} {
		entries := f.st.Registers.Get(reg)
		if len(entries) != 2 || entries[0].Contents != "ab" || entries[1].Contents != "gh" {
			t.Errorf("register %c = %+v", reg, entries)
		}
	}
	got := f.heads()
	if got[0] != cursor.Pos(0, 0) || got[1] != cursor.Pos(1, 3) {
		t.Errorf("cursors = %v", got)
	}
}

func TestYankBackwardMovesToStart(t *testing.T) {
	f := newFixture("foo bar", nil, cursor.Pos(0, 5))
	f.apply(t, 'y', "wordBackward", 0)

	if got := f.heads()[0]; got != cursor.Pos(0, 4) {
		t.Errorf("cursor = %s, want (0,4)", got)
	}
	if e, _ := f.st.Registers.Entry('"', 0); e.Contents != "b" {
		t.Errorf("register = %+v", e)
	}
}

func TestChangeWord(t *testing.T) {
	f := newFixture("foo bar", nil, cursor.Pos(0, 0))
	f.apply(t, 'c', "wordForward", 0)

	if got := f.buf.Text(); got != " bar" {
		t.Errorf("cw should keep the following blank, got %q", got)
	}
	if f.st.Mode() != mode.Insert {
		t.Errorf("mode = %s", f.st.Mode())
	}
	if got := f.heads()[0]; got != cursor.Pos(0, 0) {
		t.Errorf("cursor = %s", got)
	}
}

func TestChangeWordOnBlank(t *testing.T) {
	f := newFixture("foo  bar", nil, cursor.Pos(0, 3))
	f.apply(t, 'c', "wordForward", 0)

	if got := f.buf.Text(); got != "foobar" {
		t.Errorf("cw on a blank acts like dw, got %q", got)
	}
}

func TestChangeLinewiseKeepsIndent(t *testing.T) {
	f := newFixture("  foo\n  bar\nbaz", nil, cursor.Pos(0, 3))
	f.apply(t, 'c', "down", 0)

	if got := f.buf.Text(); got != "  \nbaz" {
		t.Errorf("text = %q", got)
	}
	if got := f.heads()[0]; got != cursor.Pos(0, 2) {
		t.Errorf("cursor = %s", got)
	}
	if f.st.Mode() != mode.Insert {
		t.Errorf("mode = %s", f.st.Mode())
	}
}

func TestCompositeRefusesAfterModeChange(t *testing.T) {
	f := newFixture("foo bar", nil, cursor.Pos(0, 0))
	a, _ := operator.NewCompiler().Compile(vim.GetOperator('d'), vim.GetMotion("wordForward"), 0, mode.Normal)
	f.st.Modes.EnterVisual()

	res := a.Execute(execctx.New(context.Background(), f.st, f.buf))
	if res.Status != handler.StatusNoOp || f.buf.Text() != "foo bar" {
		t.Errorf("expected no-op without edits, got %s %q", res.Status, f.buf.Text())
	}
}

func TestDeleteWithAsyncSurface(t *testing.T) {
	f := newFixture("one two\nthree four", []buffer.Option{buffer.WithAsync(true)}, cursor.Pos(0, 0), cursor.Pos(1, 0))
	f.apply(t, 'd', "wordForward", 0)

	if got := f.buf.Text(); got != "two\nfour" {
		t.Errorf("text = %q", got)
	}
	got := f.heads()
	if len(got) != 2 || got[0] != cursor.Pos(0, 0) || got[1] != cursor.Pos(1, 0) {
		t.Errorf("cursors = %v", got)
	}
}
