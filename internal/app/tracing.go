package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies keymode in exported spans.
const ServiceName = "keymode"

// Tracing exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Tracing owns the tracer provider dispatch spans are recorded with.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tp       trace.TracerProvider
}

// NewTracing creates a tracer provider for exporter. "none" and "" give a
// no-op provider. "stdout" writes each span as JSON to w, or to stderr
// when w is nil.
func NewTracing(exporter string, w io.Writer) (*Tracing, error) {
	switch exporter {
	case "", ExporterNone:
		return &Tracing{tp: noop.NewTracerProvider()}, nil
	case ExporterStdout:
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", exporter)
	}

	if w == nil {
		w = os.Stderr
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithSyncer(exp),
	)
	return &Tracing{provider: provider, tp: provider}, nil
}

// TracerProvider returns the provider to hand to sessions.
func (t *Tracing) TracerProvider() trace.TracerProvider {
	return t.tp
}

// Enabled reports whether spans are exported.
func (t *Tracing) Enabled() bool {
	return t.provider != nil
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}
