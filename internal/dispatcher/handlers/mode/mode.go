// Package mode provides handlers for mode switching operations.
package mode

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for mode operations.
const (
	ActionNormal          = "mode.normal"          // Escape - switch to normal mode
	ActionInsert          = "mode.insert"          // i - insert before cursor
	ActionInsertLineStart = "mode.insertLineStart" // I - insert at first non-blank
	ActionAppend          = "mode.append"          // a - append after cursor
	ActionAppendLineEnd   = "mode.appendLineEnd"   // A - append at end of line
	ActionVisual          = "mode.visual"          // v - visual character mode
	ActionVisualLine      = "mode.visualLine"      // V - visual line mode
)

// Handler handles mode switching operations.
type Handler struct {
	ns *handler.Namespace
}

// NewHandler creates a new mode handler.
func NewHandler() *Handler {
	h := &Handler{ns: handler.NewNamespace("mode")}
	h.ns.Register(ActionNormal, h.switchToNormal)
	h.ns.Register(ActionInsert, h.switchToInsert)
	h.ns.Register(ActionInsertLineStart, h.insertLineStart)
	h.ns.Register(ActionAppend, h.append)
	h.ns.Register(ActionAppendLineEnd, h.appendLineEnd)
	h.ns.Register(ActionVisual, h.switchToVisual)
	h.ns.Register(ActionVisualLine, h.switchToVisualLine)
	return h
}

// Namespace returns the mode namespace.
func (h *Handler) Namespace() string {
	return h.ns.Namespace()
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return h.ns.CanHandle(actionName)
}

// Actions implements handler.Provider.
func (h *Handler) Actions() []handler.Action {
	return h.ns.Actions()
}

func (h *Handler) switchToNormal(ctx *execctx.ExecutionContext) handler.Result {
	ctx.State.Modes.EnterNormal()
	return handler.Success()
}

func (h *Handler) switchToInsert(ctx *execctx.ExecutionContext) handler.Result {
	ctx.State.Modes.EnterInsert()
	return handler.Success()
}

// insertLineStart moves to the first non-blank character before inserting.
func (h *Handler) insertLineStart(ctx *execctx.ExecutionContext) handler.Result {
	return h.insertAt(ctx, func(line string, p cursor.Position) int {
		return vim.FirstNonBlank(line)
	})
}

// append moves one character right before inserting.
func (h *Handler) append(ctx *execctx.ExecutionContext) handler.Result {
	return h.insertAt(ctx, func(line string, p cursor.Position) int {
		return cursor.Right(line, p.Col)
	})
}

// appendLineEnd moves past the last character before inserting.
func (h *Handler) appendLineEnd(ctx *execctx.ExecutionContext) handler.Result {
	return h.insertAt(ctx, func(line string, p cursor.Position) int {
		return len([]rune(line))
	})
}

func (h *Handler) insertAt(ctx *execctx.ExecutionContext, col func(line string, p cursor.Position) int) handler.Result {
	sels := ctx.Surface.Selections()
	for i, s := range sels {
		p := s.Head
		p.Col = col(ctx.Surface.LineText(p.Line), p)
		sels[i] = cursor.Collapsed(p)
	}
	ctx.Surface.SetSelections(sels)
	ctx.State.Modes.EnterInsert()
	return handler.Success()
}

func (h *Handler) switchToVisual(ctx *execctx.ExecutionContext) handler.Result {
	ctx.State.Modes.EnterVisual()
	return handler.Success()
}

func (h *Handler) switchToVisualLine(ctx *execctx.ExecutionContext) handler.Result {
	ctx.State.Modes.EnterVisualLine()
	return handler.Success()
}
