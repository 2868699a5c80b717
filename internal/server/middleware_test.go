package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/52North/SOS-sub013/internal/observability"
)

func serveRouter(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
	return w
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var fromContext string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		fromContext = observability.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serveRouter(router, http.MethodGet, "/")

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, fromContext)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handle     PanicHandler
		wantStatus int
		wantBody   string
	}{
		{
			name:       "default response",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
		{
			name: "custom handler",
			handle: func(c *gin.Context, _ any) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "custom"})
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(Recovery(observability.NewLoggerFromZap(zap.New(core)), tt.handle))
			router.GET("/panic", func(*gin.Context) {
				panic("boom")
			})

			w := serveRouter(router, http.MethodGet, "/panic")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
		})
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(RequestID(), Logging(observability.NewLoggerFromZap(zap.New(core)), "/healthz"))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ok", "/bad", "/fail", "/healthz"} {
		serveRouter(router, http.MethodGet, path)
	}

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
}

func TestTracing(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var traceID string
	router := gin.New()
	router.Use(Tracing(provider.Tracer("test"), "/healthz"))
	router.GET("/service", func(c *gin.Context) {
		ctx := observability.ContextWithOperation(c.Request.Context(), "GetCapabilities")
		c.Request = c.Request.WithContext(ctx)
		traceID = observability.TraceIDFromContext(ctx)
		c.Status(http.StatusOK)
	})
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	serveRouter(router, http.MethodGet, "/service")
	serveRouter(router, http.MethodGet, "/healthz")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /service", span.Name())
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(http.StatusOK), attrs["http.status_code"].AsInt64())
	assert.Equal(t, "GetCapabilities", attrs["sos.operation"].AsString())
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(BodyLimit(8))
	router.POST("/", func(c *gin.Context) {
		buf := make([]byte, 64)
		_, err := c.Request.Body.Read(buf)
		for err == nil {
			_, err = c.Request.Body.Read(buf)
		}
		if strings.Contains(err.Error(), "too large") {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)
}
