package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dshills/keymode/internal/dispatcher"
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input/key"
)

// stubSurface is a read-only surface; edits complete immediately.
type stubSurface struct {
	lines []string
	sels  []cursor.Selection
}

func (s *stubSurface) Selections() []cursor.Selection {
	return append([]cursor.Selection(nil), s.sels...)
}
func (s *stubSurface) SetSelections(sels []cursor.Selection) { s.sels = sels }
func (s *stubSurface) LineCount() int                        { return len(s.lines) }
func (s *stubSurface) LineText(line int) string              { return s.lines[line] }
func (s *stubSurface) LineLength(line int) int               { return len([]rune(s.lines[line])) }
func (s *stubSurface) Edit(func(execctx.EditBuilder)) execctx.Completion {
	return execctx.Done(execctx.EditResult{})
}
func (s *stubSurface) Execute(execctx.Command) execctx.Completion {
	return execctx.Done(execctx.EditResult{})
}

func newSession() (*execctx.State, *stubSurface) {
	s := &stubSurface{lines: []string{"hello"}, sels: []cursor.Selection{cursor.Collapsed(cursor.Pos(0, 0))}}
	return execctx.NewState(s, nil), s
}

type recordingLogger struct {
	debug, errors []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Info(string, ...any)        {}
func (l *recordingLogger) Warn(string, ...any)        {}
func (l *recordingLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }

func TestDispatchRunsRegisteredAction(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	st, s := newSession()

	var gotArg rune
	d.RegisterFunc("test.action", func(ctx *execctx.ExecutionContext) handler.Result {
		gotArg = ctx.Arg
		return handler.Success()
	})

	result := d.Dispatch(context.Background(), "test.action", st, s, 'x')
	assert.Equal(t, handler.StatusOK, result.Status)
	assert.Equal(t, 'x', gotArg)
}

func TestDispatchUnknownAction(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	st, s := newSession()
	st.Pending.Add(key.Rune('z', key.ModNone))

	result := d.Dispatch(context.Background(), "unknown.action", st, s, 0)
	assert.Equal(t, handler.StatusError, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrNoHandler)
	assert.True(t, st.Pending.IsEmpty(), "pending keys must be cleared")
}

func TestInvokeClearsTransientState(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	st, s := newSession()

	plain := handler.NewFunc("test.plain", func(*execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	vertical := handler.NewFunc("test.vertical", func(ctx *execctx.ExecutionContext) handler.Result {
		ctx.State.SetDesiredColumns([]int{5})
		return handler.Success().KeepingDesiredColumns()
	})

	d.Invoke(context.Background(), vertical, st, s, 0)
	assert.Equal(t, []int{5}, st.DesiredColumns())

	st.Pending.Add(key.Rune('g', key.ModNone))
	d.Invoke(context.Background(), plain, st, s, 0)
	assert.Empty(t, st.DesiredColumns())
	assert.True(t, st.Pending.IsEmpty())
}

func TestInvokeRecoversPanic(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	logger := &recordingLogger{}
	d.SetLogger(logger)
	st, s := newSession()

	boom := handler.NewFunc("test.boom", func(*execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	var result handler.Result
	require.NotPanics(t, func() {
		result = d.Invoke(context.Background(), boom, st, s, 0)
	})
	assert.Equal(t, handler.StatusError, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrPanic)
	assert.Len(t, logger.errors, 1)
	assert.Equal(t, uint64(1), d.Metrics().TotalPanics())
}

func TestInvokeWithoutRecoveryPanics(t *testing.T) {
	d := dispatcher.New(dispatcher.Config{})
	st, s := newSession()

	boom := handler.NewFunc("test.boom", func(*execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	assert.PanicsWithValue(t, "kaboom", func() {
		d.Invoke(context.Background(), boom, st, s, 0)
	})
}

func TestInvokeLogsErrorsAtDebug(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	logger := &recordingLogger{}
	d.SetLogger(logger)
	st, s := newSession()

	fail := handler.NewFunc("test.fail", func(*execctx.ExecutionContext) handler.Result {
		return handler.Error(errors.New("nope"))
	})
	d.Invoke(context.Background(), fail, st, s, 0)

	assert.Len(t, logger.debug, 1)
	assert.Empty(t, logger.errors)
}

func TestInvokeRequiresSession(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	ran := false
	a := handler.NewFunc("test.ran", func(*execctx.ExecutionContext) handler.Result {
		ran = true
		return handler.Success()
	})

	result := d.Invoke(context.Background(), a, nil, nil, 0)
	assert.False(t, ran)
	assert.ErrorIs(t, result.Error, execctx.ErrMissingState)

	result = d.Invoke(context.Background(), nil, nil, nil, 0)
	assert.ErrorIs(t, result.Error, dispatcher.ErrInvalidAction)
}

func TestHooks(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	st, s := newSession()

	ran := false
	a := handler.NewFunc("test.hooked", func(*execctx.ExecutionContext) handler.Result {
		ran = true
		return handler.Success()
	})

	var seen []string
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(a handler.Action, _ *execctx.ExecutionContext, r *handler.Result) {
		seen = append(seen, a.Name()+":"+r.Status.String())
	}))

	d.Invoke(context.Background(), a, st, s, 0)
	require.True(t, ran)

	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(handler.Action, *execctx.ExecutionContext) bool {
		return false
	}))
	ran = false
	result := d.Invoke(context.Background(), a, st, s, 0)

	assert.False(t, ran)
	assert.Equal(t, handler.StatusCancelled, result.Status)
	assert.ErrorIs(t, result.Error, dispatcher.ErrActionCancelled)
	assert.Equal(t, []string{"test.hooked:ok", "test.hooked:cancelled"}, seen)
}

func TestInvokeSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	d := dispatcher.NewWithDefaults()
	d.SetTracerProvider(tp)
	st, s := newSession()

	d.RegisterFunc("cursor.findChar", func(*execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterFunc("test.fail", func(*execctx.ExecutionContext) handler.Result {
		return handler.Errorf("failed")
	})

	d.Dispatch(context.Background(), "cursor.findChar", st, s, 'q')
	d.Dispatch(context.Background(), "test.fail", st, s, 0)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "dispatch cursor.findChar", ok.Name)
	assert.Equal(t, codes.Ok, ok.Status.Code)
	assert.Contains(t, ok.Attributes, attribute.String(dispatcher.AttrAction, "cursor.findChar"))
	assert.Contains(t, ok.Attributes, attribute.String(dispatcher.AttrMode, "normal"))
	assert.Contains(t, ok.Attributes, attribute.String(dispatcher.AttrArg, "q"))

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status.Code)
	assert.Equal(t, "failed", failed.Status.Description)
	assert.Contains(t, failed.Attributes, attribute.String(dispatcher.AttrStatus, "error"))
}

func TestMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	st, s := newSession()

	d.RegisterFunc("a", func(*execctx.ExecutionContext) handler.Result { return handler.Success() })
	d.RegisterFunc("b", func(*execctx.ExecutionContext) handler.Result { return handler.Errorf("x") })

	d.Dispatch(context.Background(), "a", st, s, 0)
	d.Dispatch(context.Background(), "a", st, s, 0)
	d.Dispatch(context.Background(), "b", st, s, 0)

	m := d.Metrics()
	assert.Equal(t, uint64(3), m.TotalDispatches())
	assert.Equal(t, uint64(1), m.TotalErrors())

	top := m.TopActions(1)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].Name)
	assert.Equal(t, uint64(2), top[0].DispatchCount)

	stats := m.ActionStats("b")
	require.NotNil(t, stats)
	assert.Equal(t, handler.StatusError, stats.LastStatus)

	m.Reset()
	assert.Zero(t, m.TotalDispatches())
	assert.Nil(t, m.ActionStats("a"))
}

func TestRegistry(t *testing.T) {
	r := dispatcher.NewRegistry()
	ns := handler.NewNamespace("view")
	ns.Register("view.revealTop", func(*execctx.ExecutionContext) handler.Result { return handler.Success() })
	ns.Register("view.revealCenter", func(*execctx.ExecutionContext) handler.Result { return handler.Success() })

	r.RegisterNamespace(ns)
	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("view.revealTop"))
	assert.Equal(t, []string{"view.revealCenter", "view.revealTop"}, r.List())

	r.Unregister("view.revealTop")
	assert.False(t, r.Has("view.revealTop"))
	assert.Nil(t, r.Get("view.revealTop"))
}
