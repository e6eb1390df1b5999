package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/dispatcher/handler"
)

func newContext() *execctx.ExecutionContext {
	return execctx.New(context.Background(), nil, nil)
}

func TestFunc(t *testing.T) {
	called := false
	fn := handler.NewFunc("test.action", func(ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	if fn.Name() != "test.action" {
		t.Errorf("expected name 'test.action', got %q", fn.Name())
	}
	result := fn.Execute(newContext())
	if !called {
		t.Error("expected function to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
}

func TestFuncNil(t *testing.T) {
	fn := handler.NewFunc("test.nil", nil)
	if result := fn.Execute(newContext()); result.Status != handler.StatusError {
		t.Errorf("expected StatusError for nil func, got %v", result.Status)
	}
}

func TestSequenceRunsInOrder(t *testing.T) {
	var order []string
	step := func(name string, res handler.Result) handler.Action {
		return handler.NewFunc(name, func(*execctx.ExecutionContext) handler.Result {
			order = append(order, name)
			return res
		})
	}

	seq := handler.NewSequence("test.seq", step("a", handler.Success()), step("b", handler.NoOp()))
	result := seq.Execute(newContext())

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("unexpected order %v", order)
	}
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected last step's status, got %v", result.Status)
	}
}

func TestSequenceStopsOnError(t *testing.T) {
	ran := false
	boom := errors.New("boom")
	seq := handler.NewSequence("test.seq",
		handler.NewFunc("a", func(*execctx.ExecutionContext) handler.Result { return handler.Error(boom) }),
		handler.NewFunc("b", func(*execctx.ExecutionContext) handler.Result { ran = true; return handler.Success() }),
	)

	result := seq.Execute(newContext())
	if ran {
		t.Error("second step should not run after an error")
	}
	if !errors.Is(result.Error, boom) {
		t.Errorf("expected boom, got %v", result.Error)
	}
}

func TestNamespace(t *testing.T) {
	ns := handler.NewNamespace("cursor")
	ns.Register("cursor.down", func(*execctx.ExecutionContext) handler.Result { return handler.Success() })
	ns.Register("cursor.up", func(*execctx.ExecutionContext) handler.Result { return handler.Success() })

	if ns.Namespace() != "cursor" {
		t.Errorf("expected namespace 'cursor', got %q", ns.Namespace())
	}
	if !ns.CanHandle("cursor.down") || ns.CanHandle("cursor.left") {
		t.Error("CanHandle reports wrong membership")
	}

	actions := ns.Actions()
	if len(actions) != 2 || actions[0].Name() != "cursor.down" || actions[1].Name() != "cursor.up" {
		t.Errorf("expected sorted actions, got %d", len(actions))
	}
}

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"cursor.down", "cursor"},
		{"view.revealLine.top", "view"},
		{"plain", ""},
	}
	for _, tc := range tests {
		if got := handler.NamespaceOf(tc.name); got != tc.want {
			t.Errorf("NamespaceOf(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestResultHelpers(t *testing.T) {
	tests := []struct {
		name   string
		result handler.Result
		status handler.ResultStatus
	}{
		{"success", handler.Success(), handler.StatusOK},
		{"noop", handler.NoOp(), handler.StatusNoOp},
		{"noop message", handler.NoOpWithMessage("nothing"), handler.StatusNoOp},
		{"error", handler.Error(errors.New("x")), handler.StatusError},
		{"errorf", handler.Errorf("bad %d", 1), handler.StatusError},
		{"cancelled", handler.Cancelled(), handler.StatusCancelled},
	}
	for _, tc := range tests {
		if tc.result.Status != tc.status {
			t.Errorf("%s: status = %v, want %v", tc.name, tc.result.Status, tc.status)
		}
	}

	r := handler.Success().KeepingDesiredColumns().WithMessage("moved")
	if !r.KeepDesiredColumns || r.Message != "moved" || !r.IsOK() {
		t.Errorf("unexpected result %+v", r)
	}
	if !handler.Errorf("x").IsError() {
		t.Error("expected IsError")
	}
}

func TestResultStatusString(t *testing.T) {
	tests := map[handler.ResultStatus]string{
		handler.StatusOK:         "ok",
		handler.StatusNoOp:       "no-op",
		handler.StatusError:      "error",
		handler.StatusCancelled:  "cancelled",
		handler.ResultStatus(99): "unknown",
	}
	for status, want := range tests {
		if status.String() != want {
			t.Errorf("String() = %q, want %q", status.String(), want)
		}
	}
}
