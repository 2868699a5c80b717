package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func failing(name string, critical bool) *DependencyCheck {
	return NewDependencyCheck(name, DependencyTypeCache, func(context.Context) error {
		return errors.New("connection refused")
	}, WithCritical(critical))
}

func passing(name string) *DependencyCheck {
	return NewDependencyCheck(name, DependencyTypeDatabase, func(context.Context) error {
		return nil
	})
}

func serve(t *testing.T, h *Handler, path string) (int, HealthStatus) {
	t.Helper()

	engine := gin.New()
	h.RegisterRoutes(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	engine.ServeHTTP(w, req)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return w.Code, status
}

func TestHandler_Readiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: StatusOK,
		},
		{
			name:       "all passing",
			checks:     []HealthCheck{passing("db"), passing("cache")},
			wantCode:   http.StatusOK,
			wantStatus: StatusOK,
		},
		{
			name:       "non-critical failure degrades",
			checks:     []HealthCheck{passing("db"), failing("cache", false)},
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
		},
		{
			name:       "critical failure",
			checks:     []HealthCheck{failing("cache", false), failing("db", true)},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler()
			for _, c := range tt.checks {
				h.AddCheck(c)
			}

			code, status := serve(t, h, "/readyz")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Checks, len(tt.checks))
		})
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	h := NewHandler(WithVersion("1.2.3"))
	h.AddCheck(failing("cache", true))

	code, status := serve(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "1.2.3", status.Version)
	assert.NotEmpty(t, status.Uptime)
	require.Contains(t, status.Checks, "cache")
	assert.Equal(t, StatusError, status.Checks["cache"].Status)
	assert.Equal(t, "connection refused", status.Checks["cache"].Error)
	assert.True(t, status.Checks["cache"].Critical)
}

func TestHandler_Liveness(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	h.AddCheck(failing("cache", true))

	code, status := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusOK, status.Status)
}

func TestHandler_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	h := NewHandler(WithMetrics(NewMetrics("sos", reg)))
	h.AddCheck(passing("db"))
	h.AddCheck(failing("cache", false))

	h.RunChecks(context.Background())
	h.RunChecks(context.Background())

	m := h.metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("db", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("cache", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkStatus.WithLabelValues("db", string(DependencyTypeDatabase))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.checkStatus.WithLabelValues("cache", string(DependencyTypeCache))))
}
