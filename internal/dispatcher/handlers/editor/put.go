package editor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for put operations.
const (
	ActionPut       = "editor.put"       // p - put after cursor, or over the selection
	ActionPutBefore = "editor.putBefore" // P - put before cursor
)

func (h *Handler) registerPut() {
	h.ns.Register(ActionPut, h.put)
	h.ns.Register(ActionPutBefore, h.putBefore)
}

// entry returns the unnamed register's entry for cursor i. Cursors without
// an entry are skipped.
func entry(ctx *execctx.ExecutionContext, i int) (vim.RegisterEntry, bool) {
	return ctx.State.Registers.Entry(vim.DefaultRegister, i)
}

// emptyText reports a characterwise entry with nothing to insert. Putting
// one still moves the cursor.
func emptyText(e vim.RegisterEntry) bool {
	return !e.Linewise && e.Contents == ""
}

func (h *Handler) put(ctx *execctx.ExecutionContext) handler.Result {
	switch ctx.Mode() {
	case mode.Visual:
		return putOverSelection(ctx, false)
	case mode.VisualLine:
		return putOverSelection(ctx, true)
	}

	doc := ctx.Surface
	last := doc.LineCount() - 1
	onChar := func(post cursor.Range) cursor.Position {
		return mode.ClampNormal(doc, vim.Before(doc, post.End))
	}

	var changes []change
	for i, sel := range doc.Selections() {
		e, ok := entry(ctx, i)
		if !ok {
			continue
		}
		p := sel.Head
		switch {
		case e.Linewise && p.Line == last:
			at := cursor.Pos(p.Line, doc.LineLength(p.Line))
			changes = append(changes, change{
				index: i,
				r:     cursor.Range{Start: at, End: at},
				text:  "\n" + e.Contents,
				place: func(post cursor.Range) cursor.Position { return cursor.Pos(post.Start.Line+1, 0) },
			})
		case e.Linewise:
			at := cursor.Pos(p.Line+1, 0)
			changes = append(changes, change{index: i, r: cursor.Range{Start: at, End: at}, text: e.Contents + "\n"})
		case emptyText(e):
			at := cursor.Pos(p.Line, cursor.Right(doc.LineText(p.Line), p.Col))
			changes = append(changes, change{index: i, r: cursor.Range{Start: at, End: at}, place: stepLeft(doc)})
		default:
			at := cursor.Pos(p.Line, cursor.Right(doc.LineText(p.Line), p.Col))
			changes = append(changes, change{index: i, r: cursor.Range{Start: at, End: at}, text: e.Contents, place: onChar})
		}
	}
	return applyChanges(ctx, changes)
}

func (h *Handler) putBefore(ctx *execctx.ExecutionContext) handler.Result {
	doc := ctx.Surface
	onChar := func(post cursor.Range) cursor.Position {
		return mode.ClampNormal(doc, vim.Before(doc, post.End))
	}

	var changes []change
	for i, sel := range doc.Selections() {
		e, ok := entry(ctx, i)
		if !ok {
			continue
		}
		p := sel.Head
		if e.Linewise {
			at := cursor.Pos(p.Line, 0)
			changes = append(changes, change{index: i, r: cursor.Range{Start: at, End: at}, text: e.Contents + "\n"})
			continue
		}
		place := onChar
		if emptyText(e) {
			place = stepLeft(doc)
		}
		changes = append(changes, change{index: i, r: cursor.Range{Start: p, End: p}, text: e.Contents, place: place})
	}
	return applyChanges(ctx, changes)
}

// putOverSelection replaces each selection with its register entry and
// returns to Normal mode. The replaced text is not written to a register.
func putOverSelection(ctx *execctx.ExecutionContext, linewise bool) handler.Result {
	doc := ctx.Surface
	var changes []change
	for i, sel := range doc.Selections() {
		e, ok := entry(ctx, i)
		if !ok {
			continue
		}
		if linewise {
			changes = append(changes, change{index: i, r: lineSpan(doc, sel), text: e.Contents})
			continue
		}
		text := e.Contents
		if e.Linewise {
			text = "\n" + text + "\n"
		}
		place := func(post cursor.Range) cursor.Position { return vim.Before(doc, post.End) }
		if emptyText(e) {
			place = stepLeft(doc)
		}
		changes = append(changes, change{index: i, r: sel.Range(), text: text, place: place})
	}

	res := applyChanges(ctx, changes)
	if res.Status != handler.StatusError {
		ctx.State.Modes.EnterNormal()
	}
	return res
}

// lineSpan returns the whole lines a VisualLine selection covers, without
// the final line break.
func lineSpan(doc execctx.Surface, sel cursor.Selection) cursor.Range {
	first, last := sel.Start().Line, sel.End().Line
	return cursor.Range{Start: cursor.Pos(first, 0), End: cursor.Pos(last, doc.LineLength(last))}
}
