package trace

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "stocksage"
	ServiceVersion = "0.3.0"
)

// Config selects whether pipeline spans are exported and where. Spans go to stderr when
// Output is nil so they never mix with command output on stdout.
type Config struct {
	Enabled bool
	Output  io.Writer
	Pretty  bool
}

type state struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

var (
	mu      sync.RWMutex
	current *state
)

// Setup installs the tracer described by cfg, replacing any earlier one. A disabled config
// leaves span creation as a no-op.
func Setup(cfg Config) error {
	next, err := build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	prev := current
	current = next
	mu.Unlock()

	if prev != nil {
		_ = prev.provider.Shutdown(context.Background())
	}
	return nil
}

func build(cfg Config) (*state, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	exportOpts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if cfg.Pretty {
		exportOpts = append(exportOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exportOpts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res))
	otel.SetTracerProvider(provider)
	return &state{provider: provider, tracer: provider.Tracer(ServiceName)}, nil
}

func active() *state {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Shutdown flushes pending spans and turns tracing off.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	prev := current
	current = nil
	mu.Unlock()

	if prev == nil {
		return nil
	}
	return prev.provider.Shutdown(ctx)
}

// StartSpan starts a child span, or hands back the context's span unchanged when tracing
// is off.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := active()
	if s == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name, opts...)
}

func Enabled() bool { return active() != nil }

// GetTraceFields returns the hex trace and span IDs of the span in ctx.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !Enabled() {
		return "", "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
