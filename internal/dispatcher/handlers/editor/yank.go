package editor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for yank operations.
const (
	ActionYankLine       = "editor.yankLine"       // yy - yank entire line
	ActionYankToLineEnd  = "editor.yankToLineEnd"  // Y - yank to end of line
	ActionYankDeleteLine = "editor.yankDeleteLine" // ydd - yank line, then delete it
)

func (h *Handler) registerYank() {
	h.ns.Register(ActionYankLine, h.yankLine)
	h.ns.Register(ActionYankToLineEnd, h.yankToLineEnd)
	yank, _ := h.ns.Get(ActionYankLine)
	del, _ := h.ns.Get(ActionDeleteLine)
	h.ns.Add(handler.NewSequence(ActionYankDeleteLine, yank, del))
}

// yankLine writes each cursor's whole line, linewise.
func (h *Handler) yankLine(ctx *execctx.ExecutionContext) handler.Result {
	sels := ctx.Surface.Selections()
	entries := make([]vim.RegisterEntry, len(sels))
	for i, s := range sels {
		entries[i] = vim.RegisterEntry{Contents: ctx.Surface.LineText(s.Head.Line), Linewise: true}
	}
	ctx.State.Registers.SetYank(vim.DefaultRegister, entries)
	return handler.Success()
}

// yankToLineEnd writes the text from each cursor to its line end,
// characterwise.
func (h *Handler) yankToLineEnd(ctx *execctx.ExecutionContext) handler.Result {
	sels := ctx.Surface.Selections()
	entries := make([]vim.RegisterEntry, len(sels))
	for i, s := range sels {
		line := ctx.Surface.LineText(s.Head.Line)
		entries[i] = vim.RegisterEntry{Contents: cursor.Slice(line, s.Head.Col, len([]rune(line)))}
	}
	ctx.State.Registers.SetYank(vim.DefaultRegister, entries)
	return handler.Success()
}
