// Package execctx provides the execution context passed to actions: the
// session state, the editing surface and the captured key argument.
package execctx

import (
	"context"
	"fmt"

	"github.com/dshills/keymode/internal/input/mode"
)

// ExecutionContext carries everything one action invocation needs.
type ExecutionContext struct {
	// Ctx bounds waiting on surface edits.
	Ctx context.Context

	// State is the session state.
	State *State

	// Surface is the editing surface.
	Surface Surface

	// Arg is the character captured by a char pattern, or 0.
	Arg rune
}

// New creates an execution context.
func New(ctx context.Context, st *State, s Surface) *ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ExecutionContext{Ctx: ctx, State: st, Surface: s}
}

// WithArg returns the context with the captured character set.
func (ctx *ExecutionContext) WithArg(arg rune) *ExecutionContext {
	ctx.Arg = arg
	return ctx
}

// Mode returns the active mode, Normal when there is no state.
func (ctx *ExecutionContext) Mode() mode.Mode {
	if ctx.State == nil {
		return mode.Normal
	}
	return ctx.State.Mode()
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.State == nil {
		return ErrMissingState
	}
	if ctx.Surface == nil {
		return ErrMissingSurface
	}
	return nil
}

// Await blocks until c delivers its result or the context ends.
// Cursor repositioning that depends on an edit runs only after Await
// returns.
func (ctx *ExecutionContext) Await(c Completion) (EditResult, error) {
	select {
	case res, ok := <-c:
		if !ok {
			return EditResult{}, ErrNoCompletion
		}
		return res, res.Err
	case <-ctx.Context().Done():
		return EditResult{}, fmt.Errorf("%w: %w", ErrEditAborted, ctx.Context().Err())
	}
}

// Context returns the bounding context, never nil.
func (ctx *ExecutionContext) Context() context.Context {
	if ctx.Ctx == nil {
		return context.Background()
	}
	return ctx.Ctx
}

// Edit submits a batched edit and waits for it.
func (ctx *ExecutionContext) Edit(build func(EditBuilder)) (EditResult, error) {
	return ctx.Await(ctx.Surface.Edit(build))
}

// Execute runs a surface command and waits for it.
func (ctx *ExecutionContext) Execute(cmd Command) error {
	_, err := ctx.Await(ctx.Surface.Execute(cmd))
	return err
}
