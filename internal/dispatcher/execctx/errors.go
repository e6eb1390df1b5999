package execctx

import "errors"

// Execution context errors.
var (
	// ErrMissingState indicates no session state was supplied.
	ErrMissingState = errors.New("execution context: session state is required")

	// ErrMissingSurface indicates no editing surface was supplied.
	ErrMissingSurface = errors.New("execution context: surface is required")

	// ErrEditAborted indicates the context ended before an edit completed.
	ErrEditAborted = errors.New("execution context: edit aborted")

	// ErrNoCompletion indicates a completion closed without a result.
	ErrNoCompletion = errors.New("execution context: completion closed without result")

	// ErrUnknownCommand indicates the surface does not implement a command.
	ErrUnknownCommand = errors.New("execution context: unknown surface command")
)
