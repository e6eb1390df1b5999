package editor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for delete operations. These go through the surface's
// built-in commands and leave the registers alone.
const (
	ActionDeleteLine      = "editor.deleteLine"      // dd - delete line
	ActionDeleteToLineEnd = "editor.deleteToLineEnd" // D - delete to end of line
	ActionDeleteChar      = "editor.deleteChar"      // x - delete character under cursor
)

func (h *Handler) registerDelete() {
	h.ns.Register(ActionDeleteLine, h.deleteLine)
	h.ns.Register(ActionDeleteToLineEnd, h.command(execctx.CmdDeleteAllRight))
	h.ns.Register(ActionDeleteChar, h.command(execctx.CmdDeleteRight))
}

// deleteLine removes each cursor's line and moves to the first non-blank
// character of the line that took its place.
func (h *Handler) deleteLine(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Execute(execctx.CmdDeleteLines); err != nil {
		return handler.Error(err)
	}
	sels := ctx.Surface.Selections()
	for i, s := range sels {
		line := s.Head.Line
		sels[i] = cursor.Collapsed(cursor.Pos(line, vim.FirstNonBlank(ctx.Surface.LineText(line))))
	}
	ctx.Surface.SetSelections(sels)
	clampCursors(ctx)
	return handler.Success()
}

// command runs a surface command and keeps the cursors on text.
func (h *Handler) command(cmd execctx.Command) func(*execctx.ExecutionContext) handler.Result {
	return func(ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.Execute(cmd); err != nil {
			return handler.Error(err)
		}
		clampCursors(ctx)
		return handler.Success()
	}
}
