// Package handler provides the action interface and result types for
// dispatch.
package handler

import (
	"sort"
	"strings"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
)

// Action is one executable command.
type Action interface {
	// Name returns the registered action name, e.g. "editor.put".
	Name() string

	// Execute runs the action against the context's state and surface.
	Execute(ctx *execctx.ExecutionContext) Result
}

// Func adapts a function to the Action interface.
type Func struct {
	name string
	fn   func(ctx *execctx.ExecutionContext) Result
}

// NewFunc creates a named action from a function.
func NewFunc(name string, fn func(ctx *execctx.ExecutionContext) Result) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Action.Name.
func (f *Func) Name() string {
	return f.name
}

// Execute implements Action.Execute.
func (f *Func) Execute(ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("action %s has no function", f.name)
	}
	return f.fn(ctx)
}

// Sequence runs several actions in order as one action. It stops at the
// first error and otherwise reports the last step's result.
type Sequence struct {
	name  string
	steps []Action
}

// NewSequence creates a sequential composite action.
func NewSequence(name string, steps ...Action) *Sequence {
	return &Sequence{name: name, steps: steps}
}

// Name implements Action.Name.
func (s *Sequence) Name() string {
	return s.name
}

// Execute implements Action.Execute.
func (s *Sequence) Execute(ctx *execctx.ExecutionContext) Result {
	res := NoOp()
	for _, step := range s.steps {
		res = step.Execute(ctx)
		if res.Status == StatusError || res.Status == StatusCancelled {
			return res
		}
	}
	return res
}

// Provider supplies a group of actions for registration.
type Provider interface {
	Actions() []Action
}

// Namespace groups the actions sharing a prefix before the first dot
// (e.g. "cursor" in "cursor.wordForward").
type Namespace struct {
	namespace string
	actions   map[string]Action
}

// NewNamespace creates an empty namespace.
func NewNamespace(namespace string) *Namespace {
	return &Namespace{
		namespace: namespace,
		actions:   make(map[string]Action),
	}
}

// Register adds a function action under name.
func (n *Namespace) Register(name string, fn func(ctx *execctx.ExecutionContext) Result) {
	n.actions[name] = NewFunc(name, fn)
}

// Add adds an existing action.
func (n *Namespace) Add(a Action) {
	n.actions[a.Name()] = a
}

// Namespace returns the namespace prefix.
func (n *Namespace) Namespace() string {
	return n.namespace
}

// CanHandle returns true if the namespace holds the named action.
func (n *Namespace) CanHandle(name string) bool {
	_, ok := n.actions[name]
	return ok
}

// Get returns the named action.
func (n *Namespace) Get(name string) (Action, bool) {
	a, ok := n.actions[name]
	return a, ok
}

// Actions returns the namespace's actions sorted by name.
func (n *Namespace) Actions() []Action {
	names := make([]string, 0, len(n.actions))
	for name := range n.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Action, len(names))
	for i, name := range names {
		out[i] = n.actions[name]
	}
	return out
}

// NamespaceOf returns the namespace part of an action name.
func NamespaceOf(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}
