package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/52North/SOS-sub013/internal/observability"
)

// Default timeout values for health checks.
const (
	// DefaultReadinessProbeTimeout is the default timeout for readiness probes.
	DefaultReadinessProbeTimeout = 5 * time.Second

	// DefaultLivenessProbeTimeout is the default timeout for health probes.
	DefaultLivenessProbeTimeout = 10 * time.Second
)

// Overall and per check status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics records check results in m.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(h *Handler) {
		h.version = version
	}
}

// Handler handles health check requests.
type Handler struct {
	checks           []HealthCheck
	logger           observability.Logger
	metrics          *Metrics
	version          string
	readinessTimeout time.Duration
	livenessTimeout  time.Duration
	startTime        time.Time
	mu               sync.RWMutex
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Version   string                  `json:"version,omitempty"`
	Uptime    string                  `json:"uptime,omitempty"`
	Checks    map[string]*CheckResult `json:"checks,omitempty"`
}

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	Critical  bool      `json:"critical"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHandler creates a new health handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		logger:           observability.NopLogger(),
		readinessTimeout: DefaultReadinessProbeTimeout,
		livenessTimeout:  DefaultLivenessProbeTimeout,
		startTime:        time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddCheck adds a health check.
func (h *Handler) AddCheck(check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check)
}

// LivenessHandler returns a handler for liveness probes. It never runs
// checks.
func (h *Handler) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    StatusOK,
			"timestamp": time.Now().UTC(),
		})
	}
}

// ReadinessHandler returns a handler for readiness probes.
func (h *Handler) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.readinessTimeout)
		defer cancel()

		status := h.RunChecks(ctx)
		c.JSON(statusCode(status), status)
	}
}

// HealthHandler returns a handler for detailed health checks.
func (h *Handler) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.livenessTimeout)
		defer cancel()

		status := h.RunChecks(ctx)
		status.Version = h.version
		status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		c.JSON(statusCode(status), status)
	}
}

func statusCode(status *HealthStatus) int {
	if status.Status == StatusError {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// RunChecks runs all checks concurrently. A failing critical check makes
// the service unavailable; other failures only degrade it.
func (h *Handler) RunChecks(ctx context.Context) *HealthStatus {
	h.mu.RLock()
	checks := slices.Clone(h.checks)
	h.mu.RUnlock()

	results := make([]*CheckResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			results[i] = h.runCheck(ctx, check)
			return nil
		})
	}
	_ = g.Wait()

	status := &HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]*CheckResult, len(checks)),
	}
	for i, check := range checks {
		result := results[i]
		status.Checks[check.Name()] = result
		if result.Status == StatusOK {
			continue
		}
		switch {
		case result.Critical:
			status.Status = StatusError
		case status.Status == StatusOK:
			status.Status = StatusDegraded
		}
	}
	return status
}

func (h *Handler) runCheck(ctx context.Context, check HealthCheck) *CheckResult {
	start := time.Now()
	err := check.Check(ctx)
	duration := time.Since(start)

	critical, depType := true, DependencyTypeInternal
	if d, ok := check.(*DependencyCheck); ok {
		critical, depType = d.IsCritical(), d.Type()
	}
	h.metrics.record(check.Name(), depType, err == nil, duration.Seconds())

	result := &CheckResult{
		Status:    StatusOK,
		Duration:  duration.String(),
		Critical:  critical,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		h.logger.Warn("health check failed",
			observability.String("check", check.Name()),
			observability.Bool("critical", critical),
			observability.Error(err),
			observability.Duration("duration", duration),
		)
	}
	return result
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.HealthHandler())
	r.GET("/healthz", h.LivenessHandler())
	r.GET("/readyz", h.ReadinessHandler())
}
