package view

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
)

// Action names for view operations.
const (
	// Cursor positioning within the viewport.
	ActionCursorTop    = "view.cursorTop"    // H
	ActionCursorMiddle = "view.cursorMiddle" // M
	ActionCursorBottom = "view.cursorBottom" // L

	// Scrolling the cursor line to a viewport position.
	ActionRevealTop    = "view.revealTop"    // zt
	ActionRevealCenter = "view.revealCenter" // zz
	ActionRevealBottom = "view.revealBottom" // zb
)

var commands = map[string]execctx.Command{
	ActionCursorTop:    execctx.CmdCursorViewportTop,
	ActionCursorMiddle: execctx.CmdCursorViewportCenter,
	ActionCursorBottom: execctx.CmdCursorViewportBottom,
	ActionRevealTop:    execctx.CmdRevealTop,
	ActionRevealCenter: execctx.CmdRevealCenter,
	ActionRevealBottom: execctx.CmdRevealBottom,
}

// Handler implements namespace-based view handling.
type Handler struct {
	ns *handler.Namespace
}

// NewHandler creates a new view handler.
func NewHandler() *Handler {
	h := &Handler{ns: handler.NewNamespace("view")}
	for name, cmd := range commands {
		h.ns.Register(name, func(ctx *execctx.ExecutionContext) handler.Result {
			return h.run(ctx, cmd)
		})
	}
	return h
}

// Namespace returns the view namespace.
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

// run delegates to the surface, which owns the viewport.
func (h *Handler) run(ctx *execctx.ExecutionContext, cmd execctx.Command) handler.Result {
	if err := ctx.Execute(cmd); err != nil {
		return handler.Error(err)
	}
	return handler.Success()
}
