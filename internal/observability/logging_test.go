package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  LogConfig
		wantErr bool
	}{
		{name: "default config", config: DefaultLogConfig()},
		{name: "console format", config: LogConfig{Level: "debug", Format: "console", Output: "stdout"}},
		{name: "stderr output", config: LogConfig{Level: "warn", Format: "json", Output: "stderr"}},
		{name: "invalid level", config: LogConfig{Level: "invalid", Format: "json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestZapLogger_SetLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(DefaultLogConfig())
	require.NoError(t, err)

	setter, ok := logger.(LevelSetter)
	require.True(t, ok)
	assert.Equal(t, "info", setter.Level())

	child := logger.With(String("component", "test"))
	require.NoError(t, setter.SetLevel("debug"))
	assert.Equal(t, "debug", child.(LevelSetter).Level())

	assert.Error(t, setter.SetLevel("chatty"))
	assert.Equal(t, "debug", setter.Level())
}

func TestZapLogger_WithContext(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core))

	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "GetObservation")
	defer span.End()
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithOperation(ctx, "GetObservation")

	logger.WithContext(ctx).Info("handled")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, "GetObservation", fields["operation"])
}

func TestZapLogger_WithContext_Empty(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestContextAccessors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.Empty(t, OperationFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "abc")
	ctx = ContextWithOperation(ctx, "GetCapabilities")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
	assert.Empty(t, SpanIDFromContext(ctx))
	assert.Equal(t, "GetCapabilities", OperationFromContext(ctx))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	assert.NotPanics(t, func() {
		logger.Debug("debug")
		logger.Info("info", String("k", "v"))
		logger.Warn("warn", Int("n", 1))
		logger.Error("error", Bool("b", true))
		_ = logger.Sync()
	})
}
