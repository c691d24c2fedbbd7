package tracing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("cart-service")
	assert.Equal(t, "cart-service", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, "localhost:4318", cfg.OTLPEndpoint)
}

func TestInitTracer_DisabledInstallsPropagator(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := InitTracer(context.Background(), DefaultConfig("cart-service"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInitTracer_Enabled(t *testing.T) {
	restoreGlobals(t)

	cfg := DefaultConfig("cart-service")
	cfg.Enabled = true
	cfg.OTLPEndpoint = "127.0.0.1:0"

	shutdown, err := InitTracer(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	_, span := Tracer("cart-test").Start(context.Background(), "op")
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestNewSampler(t *testing.T) {
	traceID := trace.TraceID{0x01}
	root := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: traceID, Name: "op"}

	assert.Equal(t, sdktrace.RecordAndSample, newSampler(1).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.RecordAndSample, newSampler(2).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, newSampler(0).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, newSampler(-1).ShouldSample(root).Decision)

	sampledParent := trace.ContextWithRemoteSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
	child := sdktrace.SamplingParameters{ParentContext: sampledParent, TraceID: traceID, Name: "op"}
	assert.Equal(t, sdktrace.RecordAndSample, newSampler(0).ShouldSample(child).Decision,
		"a sampled remote parent wins over the root ratio")
}
