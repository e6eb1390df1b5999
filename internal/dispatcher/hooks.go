package dispatcher

import (
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
)

// PreDispatchHook is called before an action runs.
// Returning false cancels the action.
type PreDispatchHook interface {
	PreDispatch(a handler.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action ran.
// It may inspect or modify the result.
type PostDispatchHook interface {
	PostDispatch(a handler.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(a handler.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(a handler.Action, ctx *execctx.ExecutionContext) bool {
	return f(a, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(a handler.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(a handler.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(a, ctx, result)
}
