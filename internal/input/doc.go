// Package input is the front door of a modal editing session.
//
// A Handler receives key events one at a time and decides what each does:
//
//   - Escape clears the pending keys and forces Normal mode.
//   - While Insert mode has detached the command keys, printable keys,
//     Enter, Tab and Backspace are typed at every cursor.
//   - Otherwise the key is fed to the keymap matcher for the active mode.
//     Partial matches wait for more keys. Exact matches resolve to an
//     action, either a registered one or an operator+motion composite
//     compiled on the spot, and the dispatcher runs it. A sequence of
//     several keys with no match is retried with its last key alone.
//
// Keys are serialized. HandleKey returns only after the action, and any
// asynchronous edit it waits on, has finished.
//
// # Hooks
//
// Hooks see every key before and after processing. A pre hook may consume
// a key so the engine never sees it.
//
// # Usage
//
//	st := execctx.NewState(buf, registers)
//	h := input.NewHandler(input.DefaultConfig(), matcher, disp, st, buf)
//
//	for _, ev := range events {
//	    out := h.HandleKey(ctx, ev)
//	    if out.Status == input.StatusDispatched && out.Result.IsError() {
//	        log.Print(out.Result.Error)
//	    }
//	}
package input
