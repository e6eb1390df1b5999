package operator

import (
	"slices"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Composite applies an operator over the range a motion covers from each
// cursor.
type Composite struct {
	op     *vim.Operator
	motion *vim.Motion
	arg    rune
	mode   mode.Mode
}

// Name implements handler.Action.
func (c *Composite) Name() string {
	return "operator." + c.op.Name + "." + c.motion.Name
}

// Operator returns the captured operator.
func (c *Composite) Operator() *vim.Operator { return c.op }

// Motion returns the captured motion.
func (c *Composite) Motion() *vim.Motion { return c.motion }

// span is the resolved work for one cursor.
type span struct {
	index    int
	from     cursor.Position
	r        cursor.Range
	linewise bool
	text     string
	// merged holds the cursors whose spans were folded into this one.
	merged []int
}

// Execute implements handler.Action.
func (c *Composite) Execute(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Mode() != c.mode {
		return handler.NoOpWithMessage("mode changed before " + c.Name())
	}

	doc := ctx.Surface
	sels := doc.Selections()
	spans := make([]span, 0, len(sels))
	for i, sel := range sels {
		if sp, ok := c.resolve(doc, sel.Head); ok {
			sp.index = i
			spans = append(spans, sp)
		}
	}
	if len(spans) == 0 {
		return handler.NoOpWithMessage(c.motion.Name + " did not resolve")
	}

	if !c.op.ChangesText {
		entries := make([]vim.RegisterEntry, len(sels))
		for _, sp := range spans {
			entries[sp.index] = vim.RegisterEntry{Contents: sp.text, Linewise: sp.linewise}
		}
		ctx.State.Registers.SetYank(vim.DefaultRegister, entries)
		for _, sp := range spans {
			p := sp.r.Start
			if sp.linewise {
				p = cursor.Pos(sp.r.Start.Line, sp.from.Col)
			}
			sels[sp.index] = cursor.Collapsed(mode.ClampNormal(doc, p))
		}
		doc.SetSelections(sels)
		return handler.Success()
	}

	spans = c.merge(doc, spans)
	res, err := ctx.Edit(func(eb execctx.EditBuilder) {
		for _, sp := range spans {
			eb.Delete(c.editRange(doc, sp))
		}
	})
	if err != nil {
		return handler.Error(err)
	}

	// The registers change only once the edit has gone through. Cursors
	// folded into another span merge with it and get no entry of their own.
	byIndex := make([]vim.RegisterEntry, len(sels))
	folded := make([]bool, len(sels))
	for _, sp := range spans {
		byIndex[sp.index] = vim.RegisterEntry{Contents: sp.text, Linewise: sp.linewise}
		for _, i := range sp.merged {
			folded[i] = true
		}
	}
	entries := make([]vim.RegisterEntry, 0, len(sels))
	for i, e := range byIndex {
		if !folded[i] {
			entries = append(entries, e)
		}
	}
	ctx.State.Registers.SetDelete(vim.DefaultRegister, entries)

	// Cursors skipped by the motion keep the position the edit moved them to.
	after := doc.Selections()
	if len(after) == len(sels) {
		sels = after
	}
	for k, sp := range spans {
		p := res.Ranges[k].Start
		if !c.op.EntersInsert {
			if sp.linewise {
				p.Col = vim.FirstNonBlank(doc.LineText(p.Line))
			}
			p = mode.ClampNormal(doc, p)
		}
		sels[sp.index] = cursor.Collapsed(p)
		for _, i := range sp.merged {
			sels[i] = cursor.Collapsed(p)
		}
	}
	doc.SetSelections(sels)

	if c.op.EntersInsert {
		ctx.State.Modes.EnterInsert()
	}
	return handler.Success()
}

// resolve computes the range the motion covers from p, against the
// document as it is before any edit.
func (c *Composite) resolve(doc execctx.Surface, p cursor.Position) (span, bool) {
	mo := c.motion
	if c.op.EntersInsert && (mo.Kind == vim.KindWordForward || mo.Kind == vim.KindBigWordForward) {
		if end, ok := vim.ChangeWordEnd(doc, p, mo.Kind == vim.KindBigWordForward); ok {
			r := cursor.Range{Start: p, End: cursor.Pos(end.Line, cursor.Right(doc.LineText(end.Line), end.Col))}
			return span{from: p, r: r, text: vim.TextIn(doc, r)}, true
		}
	}

	to, ok := mo.Target(doc, p, c.arg, -1)
	if !ok {
		return span{}, false
	}

	if mo.Type == vim.MotionLinewise {
		first, last := min(p.Line, to.Line), max(p.Line, to.Line)
		r := cursor.Range{
			Start: cursor.Pos(first, 0),
			End:   cursor.Pos(last, len([]rune(doc.LineText(last)))),
		}
		return span{from: p, r: r, linewise: true, text: vim.LinesText(doc, first, last)}, true
	}

	r := cursor.NewRange(p, to)
	if mo.Inclusive {
		r.End.Col = cursor.Right(doc.LineText(r.End.Line), r.End.Col)
	}
	if (mo.Kind == vim.KindWordForward || mo.Kind == vim.KindBigWordForward) && r.End.Line > r.Start.Line {
		r.End = cursor.Pos(r.Start.Line, len([]rune(doc.LineText(r.Start.Line))))
	}
	if r.IsEmpty() {
		return span{}, false
	}
	return span{from: p, r: r, text: vim.TextIn(doc, r)}, true
}

// merge folds overlapping spans into one so the batched edit never
// overlaps. Linewise deletes also fold adjacent lines, since their edit
// ranges can share a line break. The result is ordered by position and
// each merged span's text covers the union.
func (c *Composite) merge(doc execctx.Surface, spans []span) []span {
	slices.SortFunc(spans, func(a, b span) int { return a.r.Start.Compare(b.r.Start) })

	gap := 0
	if !c.op.EntersInsert {
		gap = 1
	}
	out := spans[:1]
	for _, sp := range spans[1:] {
		cur := &out[len(out)-1]
		var overlaps bool
		if sp.linewise {
			overlaps = sp.r.Start.Line <= cur.r.End.Line+gap
		} else {
			overlaps = sp.r.Start.Before(cur.r.End)
		}
		if !overlaps {
			out = append(out, sp)
			continue
		}

		cur.merged = append(cur.merged, sp.index)
		cur.merged = append(cur.merged, sp.merged...)
		if sp.r.End.After(cur.r.End) {
			cur.r.End = sp.r.End
		}
		if cur.linewise {
			cur.text = vim.LinesText(doc, cur.r.Start.Line, cur.r.End.Line)
		} else {
			cur.text = vim.TextIn(doc, cur.r)
		}
	}
	return out
}

// editRange returns the range the edit removes. Linewise delete takes the
// line break with it; linewise change keeps one line and its indent.
func (c *Composite) editRange(doc execctx.Surface, sp span) cursor.Range {
	if !sp.linewise {
		return sp.r
	}
	first, last := sp.r.Start.Line, sp.r.End.Line
	if c.op.EntersInsert {
		return cursor.Range{Start: cursor.Pos(first, vim.FirstNonBlank(doc.LineText(first))), End: sp.r.End}
	}
	return vim.LinewiseRange(doc, first, last)
}
