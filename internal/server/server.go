package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/encoding"
	"github.com/52North/SOS-sub013/internal/health"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

const tracerName = "github.com/52North/SOS-sub013/internal/server"

// DefaultMaxBodySize limits POST request bodies.
const DefaultMaxBodySize = 10 << 20

// ErrAlreadyRunning is returned by Start when the server is running.
var ErrAlreadyRunning = errors.New("server already running")

// ginModeOnce ensures gin.SetMode is only called once.
var ginModeOnce sync.Once

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics enables request metrics and the metrics endpoint.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithEncodingMetrics records content negotiation results in m.
func WithEncodingMetrics(m *encoding.Metrics) Option {
	return func(s *Server) {
		s.encodingMetrics = m
	}
}

// WithTracer sets the tracer used for server spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithSettings exposes the settings administration API when it is enabled
// in the server configuration.
func WithSettings(svc *settings.Service) Option {
	return func(s *Server) {
		s.settings = svc
	}
}

// WithHealth serves the health endpoints of h.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		s.health = h
	}
}

// Server is the HTTP binding of the SOS.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.ServiceConfig

	service  *sos.Service
	encoder  *sosjson.Encoder
	settings *settings.Service
	health   *health.Handler

	negotiator      encoding.Negotiator
	xml             encoding.Codec
	metrics         *observability.Metrics
	encodingMetrics *encoding.Metrics
	tracer          trace.Tracer
	logger          observability.Logger

	mu      sync.Mutex
	running bool
}

// New creates a server answering SOS requests with svc and encoding
// responses with enc.
func New(cfg *config.ServiceConfig, svc *sos.Service, enc *sosjson.Encoder, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		service: svc,
		encoder: enc,
		xml:     encoding.NewXMLCodec(),
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	s.negotiator = encoding.NewNegotiator(cfg.Encoding.SupportedContentTypes,
		encoding.WithDefaultType(config.ContentTypeJSON),
		encoding.WithNegotiatorLogger(s.logger),
		encoding.WithNegotiatorMetrics(s.encodingMetrics),
	)

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           s.engine,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout.Duration(),
		WriteTimeout:      cfg.Server.WriteTimeout.Duration(),
	}
	return s
}

func (s *Server) setupRoutes() {
	quiet := []string{"/health", "/healthz", "/readyz", s.config.Metrics.Path}

	s.engine.Use(
		Recovery(s.logger, s.handlePanic),
		RequestID(),
		Tracing(s.tracer, quiet...),
		Logging(s.logger, quiet...),
		Metrics(s.metrics, quiet...),
		BodyLimit(DefaultMaxBodySize),
	)

	path := s.config.Server.ServicePath
	s.engine.GET(path, s.handleGet)
	s.engine.POST(path, s.handlePost)

	if s.health != nil {
		s.health.RegisterRoutes(s.engine)
	}
	if s.metrics != nil && s.config.Metrics.Enabled {
		s.engine.GET(s.config.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}
	if s.settings != nil && s.config.Server.EnableAdmin {
		s.registerAdminRoutes(s.engine.Group("/admin/settings"))
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("address", s.httpServer.Addr),
		observability.String("service_path", s.config.Server.ServicePath),
		observability.Bool("admin", s.config.Server.EnableAdmin && s.settings != nil),
	)

	err := s.httpServer.ListenAndServe()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully. A server stopped before Start
// returns from Start immediately.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
