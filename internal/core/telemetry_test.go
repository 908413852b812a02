// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
)

func TestNewTelemetry_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	tel, err := NewTelemetry(
		context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "collector:4317"},
		config.AppConfig{Version: "test"},
	)
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewExporter(t *testing.T) {
	t.Parallel()

	for _, insecure := range []bool{true, false} {
		exporter, err := newExporter(context.Background(), config.OtelConfig{
			Endpoint: "localhost:4317",
			Insecure: insecure,
		})
		require.NoError(t, err)
		require.NotNil(t, exporter)
		require.NoError(t, exporter.Shutdown(context.Background()))
	}
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	t.Parallel()

	require.Empty(t, TraceIDFromContext(context.Background()))
}

// Swaps the global provider, so it must not run in parallel.
func TestStartAndEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "invoice.Create")
	require.NotEmpty(t, TraceIDFromContext(ctx))
	EndSpan(span, nil)

	_, span = StartSpan(context.Background(), "invoice.Update")
	EndSpan(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "invoice.Create", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, "boom", ended[1].Status().Description)
}
