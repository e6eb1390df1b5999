package input

import (
	"slices"
	"sync"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/input/key"
)

// Hook intercepts keys before and after the handler processes them.
type Hook interface {
	// PreKeyEvent is called before a key is processed.
	// Return true to consume the key.
	PreKeyEvent(ev key.Event, st *execctx.State) bool

	// PostKeyEvent is called with the outcome of every processed key,
	// including consumed ones.
	PostKeyEvent(ev key.Event, out Outcome)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager runs key hooks in priority order. Hooks with equal
// priority run in registration order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	enabled bool
}

// NewHookManager creates an empty, enabled hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithPriority adds a hook with the given priority.
func (m *HookManager) RegisterWithPriority(hook Hook, priority HookPriority) HookID {
	return m.RegisterWithOptions(hook, "", priority)
}

// RegisterNamed adds a hook with a name for later removal. A hook already
// registered under name is replaced.
func (m *HookManager) RegisterNamed(hook Hook, name string) HookID {
	return m.RegisterWithOptions(hook, name, HookPriorityNormal)
}

// RegisterWithOptions adds a hook with all options specified.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		m.hooks = slices.DeleteFunc(m.hooks, func(r HookRegistration) bool { return r.Name == name })
	}

	m.nextID++
	reg := HookRegistration{ID: m.nextID, Name: name, Priority: priority, Hook: hook}

	i, _ := slices.BinarySearchFunc(m.hooks, reg, func(a, b HookRegistration) int {
		if a.Priority <= b.Priority {
			return -1
		}
		return 1
	})
	m.hooks = slices.Insert(m.hooks, i, reg)
	return reg.ID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	return m.remove(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	return m.remove(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) remove(match func(HookRegistration) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.hooks)
	m.hooks = slices.DeleteFunc(m.hooks, match)
	return len(m.hooks) < n
}

// GetByName returns the registration with the given name.
func (m *HookManager) GetByName(name string) (HookRegistration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.hooks {
		if r.Name == name {
			return r, true
		}
	}
	return HookRegistration{}, false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether hooks are enabled.
func (m *HookManager) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.hooks)
}

// Clear removes all hooks.
func (m *HookManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = nil
}

// snapshot copies the hooks so they run outside the lock.
func (m *HookManager) snapshot() []Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKeyEvent runs all PreKeyEvent hooks in priority order.
// Returns true if any hook consumed the key.
func (m *HookManager) RunPreKeyEvent(ev key.Event, st *execctx.State) bool {
	for _, hook := range m.snapshot() {
		if hook.PreKeyEvent(ev, st) {
			return true
		}
	}
	return false
}

// RunPostKeyEvent runs all PostKeyEvent hooks in priority order.
func (m *HookManager) RunPostKeyEvent(ev key.Event, out Outcome) {
	for _, hook := range m.snapshot() {
		hook.PostKeyEvent(ev, out)
	}
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PreKeyEvent is a no-op that does not consume keys.
func (BaseHook) PreKeyEvent(key.Event, *execctx.State) bool {
	return false
}

// PostKeyEvent is a no-op.
func (BaseHook) PostKeyEvent(key.Event, Outcome) {}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreKeyEventFunc  func(key.Event, *execctx.State) bool
	PostKeyEventFunc func(key.Event, Outcome)
}

// PreKeyEvent calls PreKeyEventFunc if set.
func (h FuncHook) PreKeyEvent(ev key.Event, st *execctx.State) bool {
	if h.PreKeyEventFunc != nil {
		return h.PreKeyEventFunc(ev, st)
	}
	return false
}

// PostKeyEvent calls PostKeyEventFunc if set.
func (h FuncHook) PostKeyEvent(ev key.Event, out Outcome) {
	if h.PostKeyEventFunc != nil {
		h.PostKeyEventFunc(ev, out)
	}
}

// LoggingHook logs every key and what it did at debug level.
type LoggingHook struct {
	BaseHook
	Logger Logger
}

// PreKeyEvent logs the key and the active mode.
func (h LoggingHook) PreKeyEvent(ev key.Event, st *execctx.State) bool {
	if h.Logger != nil {
		h.Logger.Debug("key %s (mode=%s pending=%q)", ev, st.Mode(), st.Pending.String())
	}
	return false
}

// PostKeyEvent logs the outcome.
func (h LoggingHook) PostKeyEvent(ev key.Event, out Outcome) {
	if h.Logger == nil {
		return
	}
	if out.Action != "" {
		h.Logger.Debug("key %s -> %s (%s)", ev, out.Action, out.Result.Status)
		return
	}
	h.Logger.Debug("key %s -> %s", ev, out.Status)
}

// FilterHook consumes keys matching a predicate.
type FilterHook struct {
	BaseHook

	// KeyEventFilter returns true to consume a key.
	KeyEventFilter func(key.Event, *execctx.State) bool
}

// PreKeyEvent applies the key filter.
func (h FilterHook) PreKeyEvent(ev key.Event, st *execctx.State) bool {
	if h.KeyEventFilter != nil {
		return h.KeyEventFilter(ev, st)
	}
	return false
}
