package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no action is registered under a name.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrActionCancelled indicates the action was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")

	// ErrPanic indicates the action panicked.
	ErrPanic = errors.New("dispatcher: action panic")

	// ErrInvalidAction indicates a nil or unnamed action.
	ErrInvalidAction = errors.New("dispatcher: invalid action")
)
