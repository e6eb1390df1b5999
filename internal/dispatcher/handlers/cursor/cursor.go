// Package cursor provides handlers for cursor movement operations.
package cursor

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/input/vim"
)

// Action names for character search repeat.
const (
	ActionRepeatFind        = "cursor.repeatFind"        // ;
	ActionRepeatFindReverse = "cursor.repeatFindReverse" // ,
)

// Handler implements cursor movement for every motion of the motion table.
type Handler struct {
	ns *handler.Namespace
}

// NewHandler creates a new cursor handler.
func NewHandler() *Handler {
	h := &Handler{ns: handler.NewNamespace("cursor")}
	for _, mo := range vim.Motions() {
		h.ns.Register(mo.Action(), func(ctx *execctx.ExecutionContext) handler.Result {
			return h.motion(ctx, mo)
		})
	}
	h.ns.Register(ActionRepeatFind, func(ctx *execctx.ExecutionContext) handler.Result {
		return h.repeat(ctx, false)
	})
	h.ns.Register(ActionRepeatFindReverse, func(ctx *execctx.ExecutionContext) handler.Result {
		return h.repeat(ctx, true)
	})
	return h
}

// Namespace returns the cursor namespace.
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

// motion runs a standalone motion. Character searches become the
// session's repeatable action.
func (h *Handler) motion(ctx *execctx.ExecutionContext, mo *vim.Motion) handler.Result {
	if mo.TakesChar {
		if ctx.Arg == 0 {
			return handler.Errorf("%s requires a character", mo.Action())
		}
		arg := ctx.Arg
		ctx.State.SetRepeat(func(ctx *execctx.ExecutionContext, reverse bool) error {
			m := mo
			if reverse {
				m = mo.Reverse()
			}
			return Move(ctx, m, arg, true).Error
		})
	}
	return Move(ctx, mo, ctx.Arg, false)
}

func (h *Handler) repeat(ctx *execctx.ExecutionContext, reverse bool) handler.Result {
	fn := ctx.State.Repeat()
	if fn == nil {
		return handler.NoOpWithMessage("no previous character search")
	}
	if err := fn(ctx, reverse); err != nil {
		return handler.Error(err)
	}
	return handler.Success()
}
