package input

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dshills/keymode/internal/dispatcher"
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/dispatcher/handlers/operator"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/keymap"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// ErrClosed is returned by Run once the handler has been closed.
var ErrClosed = errors.New("input handler closed")

// Logger receives input diagnostics. Messages are printf formats.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Config configures the input handler.
type Config struct {
	// Logger receives no-match recovery and mode transition messages.
	Logger Logger

	// EnableMetrics enables key processing counters and latencies.
	EnableMetrics bool

	// RetryLastKey re-feeds the last key alone when a multi-key sequence
	// has no match, so "dq" still runs whatever "q" is bound to.
	RetryLastKey bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics: true,
		RetryLastKey:  true,
	}
}

// Status classifies what a key did.
type Status uint8

const (
	// StatusNoMatch means the key completed no binding.
	StatusNoMatch Status = iota
	// StatusPending means the key extended a binding prefix.
	StatusPending
	// StatusDispatched means an action ran.
	StatusDispatched
	// StatusTyped means the key was typed into the surface.
	StatusTyped
	// StatusEscaped means Escape cancelled pending keys and forced Normal.
	StatusEscaped
	// StatusConsumed means a hook swallowed the key.
	StatusConsumed
	// StatusIgnored means the key has no meaning in the current mode.
	StatusIgnored
	// StatusClosed means the handler no longer accepts keys.
	StatusClosed
)

var statusNames = [...]string{
	StatusNoMatch:    "no-match",
	StatusPending:    "pending",
	StatusDispatched: "dispatched",
	StatusTyped:      "typed",
	StatusEscaped:    "escaped",
	StatusConsumed:   "consumed",
	StatusIgnored:    "ignored",
	StatusClosed:     "closed",
}

// String returns the status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Outcome reports what one key did.
type Outcome struct {
	Status Status

	// Action is the name of the dispatched action.
	Action string

	// Result is the dispatched action's result.
	Result handler.Result

	// Err is set when typing into the surface failed.
	Err error
}

// Handler is the engine front door for one editing session. It feeds keys
// through the matcher, resolves and dispatches actions, and types keys
// into the surface while Insert mode has detached the command
// subscription.
//
// Handler serializes keys: a key is not classified until the previous
// key's action, including any edit continuation, has finished.
type Handler struct {
	mu sync.Mutex

	config     Config
	matcher    *keymap.Matcher
	dispatcher *dispatcher.Dispatcher
	compiler   *operator.Compiler
	state      *execctx.State
	surface    execctx.Surface

	logger  Logger
	hooks   *HookManager
	metrics *Metrics

	closed bool
}

// NewHandler creates a handler that runs the session st against s.
// The handler becomes st's key subscriber.
func NewHandler(config Config, m *keymap.Matcher, d *dispatcher.Dispatcher, st *execctx.State, s execctx.Surface) *Handler {
	h := &Handler{
		config:     config,
		matcher:    m,
		dispatcher: d,
		compiler:   operator.NewCompiler(),
		state:      st,
		surface:    s,
		logger:     config.Logger,
		hooks:      NewHookManager(),
	}
	if h.logger == nil {
		h.logger = nopLogger{}
	}
	if config.EnableMetrics {
		h.metrics = NewMetrics()
	}
	st.SetSubscriber(h)
	st.Modes.OnChange(func(from, to mode.Mode) {
		h.logger.Debug("mode %s -> %s", from, to)
	})
	return h
}

// Hooks returns the key hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the key metrics, or nil when disabled.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// State returns the session state.
func (h *Handler) State() *execctx.State {
	return h.state
}

// Mode returns the active mode.
func (h *Handler) Mode() mode.Mode {
	return h.state.Mode()
}

// Pending returns a copy of the keys waiting for a binding to complete.
func (h *Handler) Pending() *key.Sequence {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Pending.Clone()
}

// Attach implements execctx.Subscriber.
func (h *Handler) Attach() {
	h.logger.Debug("command keys attached")
}

// Detach implements execctx.Subscriber.
func (h *Handler) Detach() {
	h.logger.Debug("command keys detached")
}

// Close stops the handler from accepting keys.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

// HandleKey processes one key event.
func (h *Handler) HandleKey(ctx context.Context, ev key.Event) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return Outcome{Status: StatusClosed}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	var out Outcome
	switch {
	case h.hooks.RunPreKeyEvent(ev, h.state):
		out = Outcome{Status: StatusConsumed}
	case ev.IsEscape():
		out = h.escapeLocked()
	case !h.state.Attached():
		out = h.typeLocked(ctx, ev)
	default:
		out = h.feedLocked(ctx, ev, h.config.RetryLastKey)
	}

	h.hooks.RunPostKeyEvent(ev, out)
	if h.metrics != nil {
		h.metrics.RecordKey(out.Status, time.Since(start))
	}
	return out
}

// HandleKeys processes evs in order and returns the outcome of each.
func (h *Handler) HandleKeys(ctx context.Context, evs ...key.Event) []Outcome {
	out := make([]Outcome, 0, len(evs))
	for _, ev := range evs {
		out = append(out, h.HandleKey(ctx, ev))
	}
	return out
}

// Escape clears the pending keys and forces Normal mode.
func (h *Handler) Escape() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.escapeLocked()
}

func (h *Handler) escapeLocked() Outcome {
	h.state.ClearPending()
	h.state.ClearDesiredColumns()
	h.state.Modes.EnterNormal()
	return Outcome{Status: StatusEscaped}
}

// feedLocked classifies ev and dispatches on an exact match. When a
// sequence of several keys has no match and retry is set, the last key is
// classified again on its own.
func (h *Handler) feedLocked(ctx context.Context, ev key.Event, retry bool) Outcome {
	md := h.state.Mode()
	res := h.matcher.Feed(h.state.Pending, ev, md)

	switch res.Status {
	case keymap.Partial:
		return Outcome{Status: StatusPending}
	case keymap.Exact:
		return h.dispatchLocked(ctx, res, md)
	}

	if retry && res.Consumed > 1 {
		h.logger.Debug("no binding for %d keys in %s, retrying %s", res.Consumed, md, ev)
		if h.metrics != nil {
			h.metrics.RecordRetry()
		}
		return h.feedLocked(ctx, ev, false)
	}
	return Outcome{Status: StatusNoMatch}
}

// dispatchLocked resolves the matched binding to an action and runs it.
func (h *Handler) dispatchLocked(ctx context.Context, res keymap.Result, md mode.Mode) Outcome {
	var (
		a  handler.Action
		ok bool
	)
	if res.Operator != nil {
		a, ok = h.compiler.Compile(res.Operator, res.Motion, res.Arg, md)
		if !ok {
			h.logger.Debug("operator %s with %s does not compile in %s", res.Operator.Name, motionName(res.Motion), md)
			return Outcome{Status: StatusNoMatch}
		}
	} else {
		a, ok = h.dispatcher.Lookup(res.Binding.Action)
		if !ok {
			h.logger.Warn("binding %q names unregistered action %s", res.Binding.Keys, res.Binding.Action)
			return Outcome{Status: StatusNoMatch}
		}
	}

	result := h.dispatcher.Invoke(ctx, a, h.state, h.surface, res.Arg)
	if result.IsError() {
		h.logger.Debug("action %s: %v", a.Name(), result.Error)
	}
	return Outcome{Status: StatusDispatched, Action: a.Name(), Result: result}
}

func motionName(mo *vim.Motion) string {
	if mo == nil {
		return "no motion"
	}
	return mo.Name
}

// typeLocked types ev at every cursor while the command keys are detached.
func (h *Handler) typeLocked(ctx context.Context, ev key.Event) Outcome {
	var text string
	switch {
	case ev.IsChar():
		text = string(ev.Rune)
	case ev.Key == key.KeyEnter:
		text = "\n"
	case ev.Key == key.KeyTab:
		text = "\t"
	case ev.Key == key.KeyBackspace:
		return h.backspaceLocked(ctx)
	default:
		return Outcome{Status: StatusIgnored}
	}

	sels := h.surface.Selections()
	ec := execctx.New(ctx, h.state, h.surface)
	res, err := ec.Edit(func(b execctx.EditBuilder) {
		for _, s := range sels {
			b.Replace(s.Range(), text)
		}
	})
	if err != nil {
		return Outcome{Status: StatusTyped, Err: err}
	}
	h.collapseTo(res.Ranges, func(r cursor.Range) cursor.Position { return r.End })
	return Outcome{Status: StatusTyped}
}

// backspaceLocked deletes the character before every cursor, joining
// lines at a line start.
func (h *Handler) backspaceLocked(ctx context.Context) Outcome {
	sels := h.surface.Selections()
	ec := execctx.New(ctx, h.state, h.surface)
	res, err := ec.Edit(func(b execctx.EditBuilder) {
		for _, s := range sels {
			p := s.Head
			if !s.IsEmpty() {
				b.Delete(s.Range())
				continue
			}
			switch {
			case p.Col > 0:
				b.Delete(cursor.Range{Start: cursor.Pos(p.Line, cursor.Left(h.surface.LineText(p.Line), p.Col)), End: p})
			case p.Line > 0:
				b.Delete(cursor.Range{Start: cursor.Pos(p.Line-1, h.surface.LineLength(p.Line-1)), End: p})
			}
		}
	})
	if err != nil {
		return Outcome{Status: StatusTyped, Err: err}
	}
	h.collapseTo(res.Ranges, func(r cursor.Range) cursor.Position { return r.Start })
	return Outcome{Status: StatusTyped}
}

// collapseTo moves the cursors onto the post-edit ranges. Cursors that
// recorded no edit keep the position the surface gave them.
func (h *Handler) collapseTo(ranges []cursor.Range, at func(cursor.Range) cursor.Position) {
	if len(ranges) == 0 {
		return
	}
	sels := h.surface.Selections()
	out := make([]cursor.Selection, 0, len(ranges)+len(sels))
	for _, r := range ranges {
		out = append(out, cursor.Collapsed(at(r)))
	}
	if len(ranges) < len(sels) {
		for _, s := range sels {
			out = append(out, cursor.Collapsed(s.Head))
		}
	}
	h.surface.SetSelections(out)
}
