package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/config"
	"github.com/radiusdt/adpulse/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := NewLogger(level, "console")
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	require := require.New(t)
	h := NewRecoveryMiddleware(zap.NewNop()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	require.Equal(http.StatusInternalServerError, rec.Code)
	require.JSONEq(`{"error":"internal server error"}`, rec.Body.String())
}

func TestRateLimitSeparatesAIAndAPI(t *testing.T) {
	require := require.New(t)
	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.0001, Burst: 2, AIRPS: 0.0001, AIBurst: 1}
	rl := NewRateLimitMiddleware(cfg, zap.NewNop())
	m := metrics.NewMetrics("mw_test", prometheus.NewRegistry())
	rl.SetMetrics(m)
	h := rl.Handler(okHandler())

	do := func(method, path string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec.Code
	}

	require.Equal(http.StatusOK, do(http.MethodPost, "/api/v1/insights/analysis"))
	require.Equal(http.StatusTooManyRequests, do(http.MethodPost, "/api/v1/sessions/abc/chat"))

	// The API bucket is untouched by AI traffic.
	require.Equal(http.StatusOK, do(http.MethodGet, "/api/v1/campaigns"))
	require.Equal(http.StatusOK, do(http.MethodGet, "/api/v1/sessions/abc"))
	require.Equal(http.StatusTooManyRequests, do(http.MethodGet, "/api/v1/summary"))

	require.Equal(1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues(LimiterAI)))
	require.Equal(1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues(LimiterAPI)))
}

func TestRateLimitDisabled(t *testing.T) {
	rl := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: false}, zap.NewNop())
	h := rl.Handler(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/insights/analysis", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitResponse(t *testing.T) {
	require := require.New(t)
	rl := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.0001, Burst: 1, AIRPS: 1, AIBurst: 1}, zap.NewNop())
	h := rl.Handler(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil))
	require.Equal(http.StatusTooManyRequests, rec.Code)
	require.Equal("1", rec.Header().Get("Retry-After"))
	require.JSONEq(`{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	require := require.New(t)
	m := metrics.NewMetrics("mw_log_test", prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(NewLoggingMiddleware(zap.NewNop(), m, "/metrics").Handler)
	r.Get("/api/v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/123", nil))
	require.Equal(http.StatusNotFound, rec.Code)
	require.Equal(1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/sessions/{id}", "404")))
}

func TestClientIP(t *testing.T) {
	require := require.New(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	require.Equal("10.0.0.1", clientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	require.Equal("10.0.0.2", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.3")
	require.Equal("203.0.113.9", clientIP(r))
}
