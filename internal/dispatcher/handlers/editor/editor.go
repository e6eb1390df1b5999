// Package editor provides handlers for text editing operations.
package editor

import (
	"slices"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/mode"
)

// Handler handles all editor operations. Each group of actions registers
// itself into the shared editor namespace.
type Handler struct {
	ns *handler.Namespace
}

// NewHandler creates the editor handler.
func NewHandler() *Handler {
	h := &Handler{ns: handler.NewNamespace("editor")}
	h.registerPut()
	h.registerDelete()
	h.registerYank()
	h.registerInsert()
	h.registerSelection()
	h.ns.Register(ActionUndo, h.undo)
	return h
}

// Namespace returns the editor namespace.
func (h *Handler) Namespace() string {
	return h.ns.Namespace()
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return h.ns.CanHandle(actionName)
}

// Get returns the named editor action.
func (h *Handler) Get(actionName string) (handler.Action, bool) {
	return h.ns.Get(actionName)
}

// Actions implements handler.Provider.
func (h *Handler) Actions() []handler.Action {
	return h.ns.Actions()
}

// ActionUndo reverts the last change.
const ActionUndo = "editor.undo" // u

func (h *Handler) undo(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Mode().IsVisual() {
		ctx.State.Modes.EnterNormal()
	}
	if err := ctx.Execute(execctx.CmdUndo); err != nil {
		return handler.Error(err)
	}
	clampCursors(ctx)
	return handler.Success()
}

// change is one edit of a batch, tied to the cursor it came from. place
// picks the cursor position from the edit's post-edit range.
type change struct {
	index int
	r     cursor.Range
	text  string
	place func(post cursor.Range) cursor.Position
	// merged holds the cursors whose deletions were folded into this one.
	merged []int
}

func postStart(post cursor.Range) cursor.Position { return post.Start }

// stepLeft places the cursor one grapheme before the end of the edit,
// staying on its line.
func stepLeft(doc execctx.Surface) func(cursor.Range) cursor.Position {
	return func(post cursor.Range) cursor.Position {
		end := post.End
		return mode.ClampNormal(doc, cursor.Pos(end.Line, cursor.Left(doc.LineText(end.Line), end.Col)))
	}
}

// applyChanges runs changes as one batched edit, waits for it, and moves
// each contributing cursor to its placed position. Cursors without a
// change keep the position the edit carried them to.
func applyChanges(ctx *execctx.ExecutionContext, changes []change) handler.Result {
	if len(changes) == 0 {
		return handler.NoOp()
	}
	changes = mergeDeletions(changes)
	sels := ctx.Surface.Selections()

	// A batch of empty inserts only moves cursors and leaves no undo step.
	post := make([]cursor.Range, len(changes))
	for k, c := range changes {
		post[k] = c.r
	}
	if slices.ContainsFunc(changes, func(c change) bool { return c.text != "" || !c.r.IsEmpty() }) {
		res, err := ctx.Edit(func(eb execctx.EditBuilder) {
			for _, c := range changes {
				eb.Replace(c.r, c.text)
			}
		})
		if err != nil {
			return handler.Error(err)
		}
		post = res.Ranges
		if after := ctx.Surface.Selections(); len(after) == len(sels) {
			sels = after
		}
	}

	for k, c := range changes {
		place := c.place
		if place == nil {
			place = postStart
		}
		p := place(post[k])
		sels[c.index] = cursor.Collapsed(p)
		for _, i := range c.merged {
			sels[i] = cursor.Collapsed(p)
		}
	}
	ctx.Surface.SetSelections(sels)
	return handler.Success()
}

// mergeDeletions folds overlapping deletions into one, ordered by
// position. Replacements are left alone.
func mergeDeletions(changes []change) []change {
	slices.SortStableFunc(changes, func(a, b change) int { return a.r.Start.Compare(b.r.Start) })
	out := changes[:1]
	for _, c := range changes[1:] {
		cur := &out[len(out)-1]
		if cur.text != "" || c.text != "" || !c.r.Start.Before(cur.r.End) {
			out = append(out, c)
			continue
		}
		cur.merged = append(cur.merged, c.index)
		cur.merged = append(cur.merged, c.merged...)
		if c.r.End.After(cur.r.End) {
			cur.r.End = c.r.End
		}
	}
	return out
}

// clampCursors keeps every cursor on an existing character.
func clampCursors(ctx *execctx.ExecutionContext) {
	sels := ctx.Surface.Selections()
	for i, s := range sels {
		sels[i] = cursor.Collapsed(mode.ClampNormal(ctx.Surface, s.Head))
	}
	ctx.Surface.SetSelections(sels)
}
