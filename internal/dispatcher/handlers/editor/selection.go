package editor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for Visual mode selection operators.
const (
	ActionDeleteSelection = "editor.deleteSelection" // d, x in Visual modes
	ActionChangeSelection = "editor.changeSelection" // c in Visual modes
	ActionYankSelection   = "editor.yankSelection"   // y in Visual modes
)

func (h *Handler) registerSelection() {
	h.ns.Register(ActionDeleteSelection, h.deleteSelection)
	h.ns.Register(ActionChangeSelection, h.changeSelection)
	h.ns.Register(ActionYankSelection, h.yankSelection)
}

// selected returns the register entries for the current selections and
// the non-empty ones as changes removing them.
func selected(ctx *execctx.ExecutionContext) ([]vim.RegisterEntry, []change) {
	doc := ctx.Surface
	linewise := ctx.Mode() == mode.VisualLine
	sels := doc.Selections()
	entries := make([]vim.RegisterEntry, len(sels))
	changes := make([]change, 0, len(sels))
	for i, s := range sels {
		if linewise {
			first, last := s.Start().Line, s.End().Line
			entries[i] = vim.RegisterEntry{Contents: vim.LinesText(doc, first, last), Linewise: true}
			changes = append(changes, change{index: i, r: vim.LinewiseRange(doc, first, last)})
			continue
		}
		r := s.Range()
		if r.IsEmpty() {
			continue
		}
		entries[i] = vim.RegisterEntry{Contents: vim.TextIn(doc, r)}
		changes = append(changes, change{index: i, r: r})
	}
	return entries, changes
}

func (h *Handler) deleteSelection(ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.Mode().IsVisual() {
		return handler.NoOpWithMessage("no selection")
	}
	linewise := ctx.Mode() == mode.VisualLine
	entries, changes := selected(ctx)
	if len(changes) == 0 {
		ctx.State.Modes.EnterNormal()
		return handler.NoOp()
	}
	for k := range changes {
		changes[k].place = func(post cursor.Range) cursor.Position {
			p := post.Start
			if linewise {
				p.Col = vim.FirstNonBlank(ctx.Surface.LineText(p.Line))
			}
			return p
		}
	}

	res := applyChanges(ctx, changes)
	if res.IsError() {
		return res
	}
	ctx.State.Registers.SetDelete(vim.DefaultRegister, entries)
	ctx.State.Modes.EnterNormal()
	return handler.Success()
}

func (h *Handler) changeSelection(ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.Mode().IsVisual() {
		return handler.NoOpWithMessage("no selection")
	}
	entries, changes := selected(ctx)
	if ctx.Mode() == mode.VisualLine {
		// keep one line and its indent to type into
		for k, c := range changes {
			s := ctx.Surface.Selections()[c.index]
			first, last := s.Start().Line, s.End().Line
			changes[k].r = cursor.Range{
				Start: cursor.Pos(first, vim.FirstNonBlank(ctx.Surface.LineText(first))),
				End:   cursor.Pos(last, ctx.Surface.LineLength(last)),
			}
		}
	}

	if res := applyChanges(ctx, changes); res.IsError() {
		return res
	}
	ctx.State.Registers.SetDelete(vim.DefaultRegister, entries)
	ctx.State.Modes.EnterInsert()
	return handler.Success()
}

func (h *Handler) yankSelection(ctx *execctx.ExecutionContext) handler.Result {
	if !ctx.Mode().IsVisual() {
		return handler.NoOpWithMessage("no selection")
	}
	entries, _ := selected(ctx)
	ctx.State.Registers.SetYank(vim.DefaultRegister, entries)

	sels := ctx.Surface.Selections()
	for i, s := range sels {
		p := s.Start()
		if ctx.Mode() == mode.VisualLine {
			p.Col = 0
		}
		sels[i] = cursor.Collapsed(p)
	}
	ctx.Surface.SetSelections(sels)
	ctx.State.Modes.EnterNormal()
	return handler.Success()
}
