package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/52North/SOS-sub013/internal/observability"
)

const (
	// RequestIDHeader is the header name for request ID.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key for request ID.
	RequestIDKey = "requestID"
	// SpanKey is the gin context key for the request span.
	SpanKey = "otel-span"
)

// RequestID returns a middleware that reuses the X-Request-ID header or
// generates a new ID, and stores it in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(
			observability.ContextWithRequestID(c.Request.Context(), requestID),
		)
		c.Next()
	}
}

// GetRequestID returns the request ID from the context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}

// Logging returns a middleware that logs completed requests. Requests for
// skipPaths are not logged.
func Logging(logger observability.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []observability.Field{
			observability.String("method", c.Request.Method),
			observability.String("path", path),
			observability.String("query", c.Request.URL.RawQuery),
			observability.Int("status", status),
			observability.Duration("latency", time.Since(start)),
			observability.String("client_ip", c.ClientIP()),
			observability.Int("body_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.String("errors", c.Errors.String()))
		}

		log := logger.WithContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// PanicHandler writes the response after a recovered panic.
type PanicHandler func(c *gin.Context, err any)

// Recovery returns a middleware that recovers from panics, logs them with
// the stack and hands the response to handle.
func Recovery(logger observability.Logger, handle PanicHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}

			logger.WithContext(c.Request.Context()).Error("panic recovered",
				observability.Any("error", err),
				observability.String("method", c.Request.Method),
				observability.String("path", c.Request.URL.Path),
				observability.String("stack", string(debug.Stack())),
			)

			if span := GetSpan(c); span != nil {
				span.RecordError(fmt.Errorf("panic: %v", err))
			}

			if handle != nil {
				handle(c, err)
			}
			if !c.IsAborted() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// Tracing returns a middleware that starts a server span per request,
// continuing the trace propagated by the client.
func Tracing(tracer trace.Tracer, skipPaths ...string) gin.HandlerFunc {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		ctx := otel.GetTextMapPropagator().Extract(
			c.Request.Context(), propagation.HeaderCarrier(c.Request.Header),
		)
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.target", path),
				attribute.String("net.peer.ip", c.ClientIP()),
			),
		)
		defer span.End()

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request.id", requestID))
		}

		c.Set(SpanKey, span)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int("http.response_content_length", c.Writer.Size()),
		)
		if op := observability.OperationFromContext(c.Request.Context()); op != "" {
			span.SetAttributes(attribute.String("sos.operation", op))
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// GetSpan returns the request span, or nil when tracing is not installed.
func GetSpan(c *gin.Context) trace.Span {
	if span, exists := c.Get(SpanKey); exists {
		if s, ok := span.(trace.Span); ok {
			return s
		}
	}
	return nil
}

// Metrics returns a middleware recording request count, latency and
// response size per SOS operation.
func Metrics(m *observability.Metrics, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		if m == nil || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		m.IncrementActiveRequests()
		defer m.DecrementActiveRequests()

		start := time.Now()
		c.Next()

		m.RecordRequest(
			c.Request.Method,
			observability.OperationFromContext(c.Request.Context()),
			c.Writer.Status(),
			time.Since(start),
			int64(c.Writer.Size()),
		)
	}
}

// BodyLimit returns a middleware that limits the request body to maxSize
// bytes.
func BodyLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
