package cursor

import (
	"slices"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Move applies mo to every cursor. In Visual modes the selection is
// extended from its anchor instead of collapsed. Cursors whose motion does
// not resolve keep their position. With repeat set, a till motion that
// would stay in place searches again one character further.
func Move(ctx *execctx.ExecutionContext, mo *vim.Motion, arg rune, repeat bool) handler.Result {
	if mo == nil {
		return handler.Errorf("no motion")
	}
	s := ctx.Surface
	m := ctx.Mode()
	before := s.Selections()
	sels := slices.Clone(before)

	var cols []int
	if mo.Vertical() {
		cols = make([]int, len(sels))
	}

	for i, sel := range sels {
		from := sel.Head
		if m.IsVisual() {
			from = mode.ActiveChar(s, sel)
		}

		desired := -1
		if cols != nil {
			desired = ctx.State.DesiredColumn(i)
			if desired < 0 {
				desired = from.Col
			}
			cols[i] = desired
		}

		to, ok := target(s, mo, from, arg, desired, repeat)
		if !ok {
			continue
		}

		switch m {
		case mode.Visual:
			sels[i] = extendVisual(s, sel, to)
		case mode.VisualLine:
			sels[i] = extendVisualLine(s, sel, to)
		case mode.Normal:
			sels[i] = cursor.Collapsed(mode.ClampNormal(s, to))
		default:
			sels[i] = cursor.Collapsed(to)
		}
	}

	if cols != nil {
		ctx.State.SetDesiredColumns(cols)
	}
	if slices.Equal(before, sels) {
		res := handler.NoOp()
		if cols != nil {
			res = res.KeepingDesiredColumns()
		}
		return res
	}

	s.SetSelections(sels)
	res := handler.Success()
	if cols != nil {
		res = res.KeepingDesiredColumns()
	}
	return res
}

func target(doc vim.Document, mo *vim.Motion, from cursor.Position, arg rune, desired int, repeat bool) (cursor.Position, bool) {
	to, ok := mo.Target(doc, from, arg, desired)
	if !ok || !repeat || to != from {
		return to, ok
	}
	switch mo.Kind {
	case vim.KindTillChar:
		next, ok := mo.Target(doc, cursor.Pos(from.Line, from.Col+1), arg, desired)
		return next, ok && next != from
	case vim.KindTillCharBack:
		if from.Col == 0 {
			return from, false
		}
		next, ok := mo.Target(doc, cursor.Pos(from.Line, from.Col-1), arg, desired)
		return next, ok && next != from
	}
	return to, ok
}

// extendVisual rebuilds a charwise selection so it covers both the anchor
// character and the character at to.
func extendVisual(v mode.View, sel cursor.Selection, to cursor.Position) cursor.Selection {
	anchor := mode.AnchorChar(v, sel)
	if !to.Before(anchor) {
		return cursor.NewSelection(anchor, cursor.Pos(to.Line, cursor.Right(v.LineText(to.Line), to.Col)))
	}
	return cursor.NewSelection(cursor.Pos(anchor.Line, cursor.Right(v.LineText(anchor.Line), anchor.Col)), to)
}

// extendVisualLine rebuilds a linewise selection from the anchor line to
// the line of to.
func extendVisualLine(v mode.View, sel cursor.Selection, to cursor.Position) cursor.Selection {
	anchorLine := sel.Anchor.Line
	lineLen := func(l int) int { return len([]rune(v.LineText(l))) }
	if to.Line >= anchorLine {
		return cursor.NewSelection(cursor.Pos(anchorLine, 0), cursor.Pos(to.Line, lineLen(to.Line)))
	}
	return cursor.NewSelection(cursor.Pos(anchorLine, lineLen(anchorLine)), cursor.Pos(to.Line, 0))
}
