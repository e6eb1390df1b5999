// Package operator compiles operator+motion key sequences into composite
// actions.
package operator

import (
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Compiler builds composite actions for operator bindings.
type Compiler struct{}

// NewCompiler creates an operator compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the composite action applying op over mo. The motion
// and its character argument are captured before the action exists, so
// the action never depends on later input. Operators are only compiled
// for Normal mode; the action refuses to run if the mode has changed by
// the time it executes.
func (c *Compiler) Compile(op *vim.Operator, mo *vim.Motion, arg rune, m mode.Mode) (handler.Action, bool) {
	if op == nil || mo == nil || m != mode.Normal {
		return nil, false
	}
	if mo.TakesChar && arg == 0 {
		return nil, false
	}
	return &Composite{op: op, motion: mo, arg: arg, mode: m}, true
}
