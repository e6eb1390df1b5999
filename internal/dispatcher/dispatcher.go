package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
)

// Span attribute keys.
const (
	AttrAction = "keymode.action"
	AttrMode   = "keymode.mode"
	AttrArg    = "keymode.arg"
	AttrStatus = "keymode.status"
)

// Logger receives dispatcher diagnostics. Messages are printf formats.
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

// Dispatcher runs actions against a session and its surface.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	config   Config
	metrics  *Metrics

	logger Logger
	tracer trace.Tracer

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		config:   config,
		logger:   nopLogger{},
		tracer:   noop.NewTracerProvider().Tracer("keymode/dispatcher"),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetLogger sets the diagnostics logger. nil disables logging.
func (d *Dispatcher) SetLogger(l Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l == nil {
		l = nopLogger{}
	}
	d.logger = l
}

// SetTracerProvider sets the provider dispatch spans are created from.
func (d *Dispatcher) SetTracerProvider(tp trace.TracerProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	d.tracer = tp.Tracer("keymode/dispatcher")
}

// Registry returns the action registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Metrics returns the metrics collector, nil unless enabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// RegisterAction registers an action under its name.
func (d *Dispatcher) RegisterAction(a handler.Action) {
	d.registry.Register(a)
}

// RegisterFunc registers a function action.
func (d *Dispatcher) RegisterFunc(name string, fn func(ctx *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(handler.NewFunc(name, fn))
}

// RegisterNamespace registers every action a provider supplies.
func (d *Dispatcher) RegisterNamespace(p handler.Provider) {
	d.registry.RegisterNamespace(p)
}

// Lookup returns the named action.
func (d *Dispatcher) Lookup(name string) (handler.Action, bool) {
	a := d.registry.Get(name)
	return a, a != nil
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// Dispatch looks up the named action and invokes it.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, st *execctx.State, s execctx.Surface, arg rune) handler.Result {
	a := d.registry.Get(name)
	if a == nil {
		result := handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, name))
		if st != nil {
			d.finish(st, result)
		}
		d.log().Debug("dispatch %s: %v", name, result.Error)
		return result
	}
	return d.Invoke(ctx, a, st, s, arg)
}

// Invoke executes a against the session state and surface, then clears
// the pending keys and, unless the result keeps them, the desired columns.
// It never panics and never returns an error to the caller beyond the
// result: failures are logged at debug level.
func (d *Dispatcher) Invoke(ctx context.Context, a handler.Action, st *execctx.State, s execctx.Surface, arg rune) handler.Result {
	if a == nil {
		return handler.Error(ErrInvalidAction)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	d.mu.RLock()
	tracer := d.tracer
	d.mu.RUnlock()

	ctx, span := tracer.Start(ctx, "dispatch "+a.Name(), trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	ec := execctx.New(ctx, st, s).WithArg(arg)
	span.SetAttributes(
		attribute.String(AttrAction, a.Name()),
		attribute.String(AttrMode, ec.Mode().String()),
	)
	if arg != 0 {
		span.SetAttributes(attribute.String(AttrArg, string(arg)))
	}

	var result handler.Result
	err := ec.Validate()
	switch {
	case err != nil:
		result = handler.Error(err)
	case !d.runPreHooks(a, ec):
		result = handler.Cancelled()
		result.Error = ErrActionCancelled
	case d.config.RecoverFromPanic:
		result = d.executeWithRecovery(a, ec)
	default:
		result = a.Execute(ec)
	}

	if st != nil {
		d.finish(st, result)
	}
	d.runPostHooks(a, ec, &result)

	span.SetAttributes(attribute.String(AttrStatus, result.Status.String()))
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, result.Error.Error())
		d.log().Debug("action %s: %v", a.Name(), result.Error)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if d.metrics != nil {
		d.metrics.RecordDispatch(a.Name(), time.Since(start), result.Status)
	}
	return result
}

// finish resets transient matcher state after an action.
func (d *Dispatcher) finish(st *execctx.State, result handler.Result) {
	st.ClearPending()
	if !result.KeepDesiredColumns {
		st.ClearDesiredColumns()
	}
}

// executeWithRecovery executes an action with panic recovery.
func (d *Dispatcher) executeWithRecovery(a handler.Action, ec *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Error(fmt.Errorf("%w in %s: %v", ErrPanic, a.Name(), r))
			d.log().Error("recovered panic in %s: %v\n%s", a.Name(), r, stack[:n])

			if d.metrics != nil {
				d.metrics.RecordPanic(a.Name())
			}
		}
	}()

	return a.Execute(ec)
}

func (d *Dispatcher) log() Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the action.
func (d *Dispatcher) runPreHooks(a handler.Action, ec *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(a, ec) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(a handler.Action, ec *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(a, ec, result)
	}
}
