package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"bbscope/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

// NewTracerProvider builds the provider selected by TRACE_EXPORTER. With
// "none" it returns a no-op provider.
func NewTracerProvider(ctx context.Context, cfg *config.Config, out io.Writer) (trace.TracerProvider, Shutdown, error) {
	var exporter sdktrace.SpanExporter
	switch cfg.TraceExporter {
	case "", config.TraceNone:
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	case config.TraceStdout:
		if out == nil {
			out = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, nil, err
		}
		exporter = exp
	case config.TraceOTLP:
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.TraceEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, nil, err
		}
		exporter = exp
	default:
		return nil, nil, fmt.Errorf("unsupported trace exporter %q", cfg.TraceExporter)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp, tp.Shutdown, nil
}

// Setup installs the configured provider globally.
func Setup(ctx context.Context, cfg *config.Config) (trace.TracerProvider, Shutdown, error) {
	tp, shutdown, err := NewTracerProvider(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	return tp, shutdown, nil
}
