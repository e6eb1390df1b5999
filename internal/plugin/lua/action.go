package lua

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
)

// LookupFunc resolves an action name for scripts that call keymode.run.
type LookupFunc func(name string) (handler.Action, bool)

// Engine compiles Lua snippets into actions. Every action shares one
// sandboxed state, and the keymode module is bound to whichever action is
// running.
type Engine struct {
	mu      sync.Mutex
	state   *State
	lookup  LookupFunc
	actions map[string]*scriptAction
	current *execctx.ExecutionContext
}

// NewEngine creates a script engine. lookup may be nil, in which case
// keymode.run is unavailable.
func NewEngine(lookup LookupFunc, opts ...StateOption) *Engine {
	e := &Engine{
		state:   NewState(opts...),
		lookup:  lookup,
		actions: make(map[string]*scriptAction),
	}
	e.state.RegisterModule(ModuleName, e.module())
	return e
}

// Add compiles code into an action called name, replacing any action with
// the same name.
func (e *Engine) Add(name, code string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty action name", ErrScript)
	}
	fn, err := e.state.Compile(name, code)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions[name] = &scriptAction{name: name, fn: fn, engine: e}
	return nil
}

// Remove drops the action called name.
func (e *Engine) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.actions[name]
	delete(e.actions, name)
	return ok
}

// Actions implements handler.Provider. Actions are sorted by name.
func (e *Engine) Actions() []handler.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.actions))
	for name := range e.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]handler.Action, len(names))
	for i, name := range names {
		out[i] = e.actions[name]
	}
	return out
}

// Close releases the Lua state.
func (e *Engine) Close() error {
	return e.state.Close()
}

func (e *Engine) run(sa *scriptAction, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.Validate(); err != nil {
		return handler.Error(err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = ec
	defer func() { e.current = nil }()

	if err := e.state.Call(ec.Context(), sa.fn); err != nil {
		return handler.Error(fmt.Errorf("%w: %s: %w", ErrScript, sa.name, err))
	}
	return handler.Success()
}

// scriptAction is a compiled snippet.
type scriptAction struct {
	name   string
	fn     *lua.LFunction
	engine *Engine
}

func (a *scriptAction) Name() string {
	return a.name
}

func (a *scriptAction) Execute(ctx *execctx.ExecutionContext) handler.Result {
	return a.engine.run(a, ctx)
}
