package telemetry

import (
	"bytes"
	"context"
	"testing"

	"bbscope/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewTracerProviderNone(t *testing.T) {
	tp, shutdown, err := NewTracerProvider(context.Background(), &config.Config{TraceExporter: config.TraceNone}, nil)
	require.NoError(t, err)

	_, isSDK := tp.(*sdktrace.TracerProvider)
	assert.False(t, isSDK)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProviderStdoutExportsSpans(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Config{ServiceName: "bbscope", Version: "test", TraceExporter: config.TraceStdout}

	tp, shutdown, err := NewTracerProvider(context.Background(), cfg, &out)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "Scope.Service.GetTarget")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), "Scope.Service.GetTarget")
	assert.Contains(t, out.String(), "bbscope")
}

func TestNewTracerProviderUnknown(t *testing.T) {
	_, _, err := NewTracerProvider(context.Background(), &config.Config{TraceExporter: "jaeger"}, nil)
	assert.Error(t, err)
}
