package editor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for operations that end in Insert mode.
const (
	ActionChangeLine      = "editor.changeLine"      // cc - change line
	ActionChangeToLineEnd = "editor.changeToLineEnd" // C - change to end of line
	ActionOpenBelow       = "editor.openBelow"       // o - open line below
	ActionOpenAbove       = "editor.openAbove"       // O - open line above
)

func (h *Handler) registerInsert() {
	h.ns.Register(ActionChangeLine, h.changeLine)
	h.ns.Register(ActionChangeToLineEnd, h.thenInsert(execctx.CmdDeleteAllRight))
	h.ns.Register(ActionOpenBelow, h.thenInsert(execctx.CmdInsertLineAfter))
	h.ns.Register(ActionOpenAbove, h.thenInsert(execctx.CmdInsertLineBefore))
}

// changeLine clears each cursor's line after its indent, then inserts.
func (h *Handler) changeLine(ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Surface
	var changes []change
	seen := make(map[int]bool)
	for i, s := range doc.Selections() {
		line := s.Head.Line
		if seen[line] {
			continue
		}
		seen[line] = true
		r := cursor.Range{
			Start: cursor.Pos(line, vim.FirstNonBlank(doc.LineText(line))),
			End:   cursor.Pos(line, doc.LineLength(line)),
		}
		changes = append(changes, change{index: i, r: r})
	}

	if res := applyChanges(ctx, changes); res.IsError() {
		return res
	}
	ctx.State.Modes.EnterInsert()
	return handler.Success()
}

// thenInsert runs a surface command and enters Insert mode.
func (h *Handler) thenInsert(cmd execctx.Command) func(*execctx.ExecutionContext) handler.Result {
	return func(ctx *execctx.ExecutionContext) handler.Result {
		if err := ctx.Execute(cmd); err != nil {
			return handler.Error(err)
		}
		ctx.State.Modes.EnterInsert()
		return handler.Success()
	}
}
