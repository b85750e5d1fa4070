package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radiusdt/adpulse/internal/config"
	"github.com/radiusdt/adpulse/internal/metrics"
)

// Limiter names used in logs and metrics.
const (
	LimiterAI  = "ai"
	LimiterAPI = "api"
)

// RateLimitMiddleware implements token bucket rate limiting. Requests that
// reach the generative model share a tighter bucket than the rest of the API.
type RateLimitMiddleware struct {
	cfg        config.RateLimitConfig
	logger     *zap.Logger
	metrics    *metrics.Metrics
	aiLimiter  *rate.Limiter
	apiLimiter *rate.Limiter
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cfg:        cfg,
		logger:     logger,
		aiLimiter:  rate.NewLimiter(rate.Limit(cfg.AIRPS), cfg.AIBurst),
		apiLimiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	}
}

func (rl *RateLimitMiddleware) SetMetrics(m *metrics.Metrics) {
	rl.metrics = m
}

// Handler wraps an http.Handler with rate limiting.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		name, limiter := LimiterAPI, rl.apiLimiter
		if isAIRequest(r) {
			name, limiter = LimiterAI, rl.aiLimiter
		}

		if !limiter.Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("limiter", name),
				zap.String("path", r.URL.Path),
				zap.String("client_ip", clientIP(r)),
			)
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(name)
			}
			rl.tooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isAIRequest reports whether the request triggers a model call.
func isAIRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/v1/insights/") ||
		(strings.HasPrefix(r.URL.Path, "/api/v1/sessions/") && strings.HasSuffix(r.URL.Path, "/chat"))
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func (rl *RateLimitMiddleware) tooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
}
