// Package dispatcher runs named actions against an editing session.
//
// The dispatcher is the last step of key handling: once the key matcher
// has resolved a binding, the input handler looks the action up here (or,
// for operator bindings, has the operator compiler build one) and calls
// Invoke.
//
// # Invocation
//
// When an action is invoked:
//
//  1. A span is started on the configured tracer.
//  2. An ExecutionContext is built from the session state, the surface and
//     the captured character.
//  3. Pre-dispatch hooks run and may cancel the action.
//  4. The action executes, with panic recovery unless disabled.
//  5. The pending key sequence is cleared, and so are the desired columns
//     unless the result keeps them.
//  6. Post-dispatch hooks run and metrics are recorded.
//
// Invoke never panics. Errors are carried in the returned Result and
// logged at debug level; they are never raised to the key source.
//
// # Actions
//
// Actions implement handler.Action:
//
//	type Action interface {
//	    Name() string
//	    Execute(ctx *execctx.ExecutionContext) Result
//	}
//
// Handler packages group their actions in a handler.Namespace and expose
// them through a handler.Provider:
//
//	d := dispatcher.NewWithDefaults()
//	d.RegisterNamespace(editor.NewHandler())
//	res := d.Dispatch(ctx, "editor.put", state, surface, 0)
package dispatcher
