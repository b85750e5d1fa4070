package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/config"
	"github.com/radiusdt/adpulse/internal/database"
	"github.com/radiusdt/adpulse/internal/insights"
	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/middleware"
	"github.com/radiusdt/adpulse/internal/reporting"
	"github.com/radiusdt/adpulse/internal/session"
	"github.com/radiusdt/adpulse/internal/storage"
)

// Dependencies holds all external dependencies for the server. Source and
// Model override the ones NewServer would derive from the config.
type Dependencies struct {
	DB         *database.PostgresDB
	ClickHouse *database.ClickHouseDB
	Redis      *database.RedisDB
	Sessions   *session.Store
	Source     storage.CampaignSource
	Model      insights.Model
	Series     *reporting.SeriesGenerator
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	// MetricsHandler serves the metrics path. Defaults to metrics.Handler().
	MetricsHandler http.Handler
}

// Server wraps the dashboard HTTP handlers.
type Server struct {
	source    storage.CampaignSource
	sessions  *session.Store
	analysis  *insights.AnalysisService
	chat      *insights.ChatService
	series    *reporting.SeriesGenerator
	healthers map[string]func(context.Context) error
	logger    *zap.Logger
	config    *config.Config
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	s := newServer(deps)
	return s.routes(deps)
}

func newServer(deps *Dependencies) *Server {
	cfg := deps.Config
	healthers := make(map[string]func(context.Context) error)

	// Campaign feed
	src := deps.Source
	if src == nil {
		switch {
		case cfg.Source.Kind == config.SourcePostgres && deps.DB != nil:
			src = storage.NewPostgresCampaignSource(deps.DB.Pool)
		case cfg.Source.Kind == config.SourceClickHouse && deps.ClickHouse != nil:
			src = storage.NewClickHouseCampaignSource(deps.ClickHouse.Conn)
		default:
			if cfg.Source.Kind != config.SourceMemory {
				deps.Logger.Warn("campaign source not connected, serving sample account",
					zap.String("source", cfg.Source.Kind))
			}
			src = storage.NewInMemoryCampaignSource(storage.SampleCampaigns())
		}
	}
	if deps.DB != nil {
		healthers["postgres"] = deps.DB.Health
	}
	if deps.ClickHouse != nil {
		healthers["clickhouse"] = deps.ClickHouse.Health
	}

	// Chat guard
	var guard insights.PendingGuard
	if deps.Redis != nil {
		guard = insights.NewRedisPendingGuard(deps.Redis.Client, cfg.Session.PendingTTL, deps.Logger)
		healthers["redis"] = deps.Redis.Health
	} else {
		guard = insights.NewInMemoryPendingGuard()
	}

	// Generative model
	model := deps.Model
	if model == nil {
		if cfg.AIEnabled() {
			gc, err := insights.NewGeminiClient(context.Background(), cfg.Gemini, deps.Logger)
			if err != nil {
				deps.Logger.Error("failed to create Gemini client, AI insights will return fallback text", zap.Error(err))
				model = insights.DisabledModel{}
			} else {
				model = gc
			}
		} else {
			deps.Logger.Warn("no Gemini API key configured, AI insights will return fallback text")
			model = insights.DisabledModel{}
		}
	}
	genCfg := insights.GenerationConfig{Temperature: cfg.Gemini.Temperature, TopP: cfg.Gemini.TopP}

	sessions := deps.Sessions
	if sessions == nil {
		sessions = session.NewStore(cfg.Dashboard.DefaultRange)
	}
	series := deps.Series
	if series == nil {
		series = reporting.NewSeriesGenerator()
	}

	return &Server{
		source:    storage.NewInstrumentedSource(src, deps.Logger, deps.Metrics),
		sessions:  sessions,
		analysis:  insights.NewAnalysisService(model, genCfg, deps.Logger, deps.Metrics),
		chat:      insights.NewChatService(model, guard, genCfg, deps.Logger, deps.Metrics),
		series:    series,
		healthers: healthers,
		logger:    deps.Logger,
		config:    cfg,
		metrics:   deps.Metrics,
		now:       time.Now,
	}
}

func (s *Server) routes(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	rl := middleware.NewRateLimitMiddleware(s.config.RateLimit, s.logger)
	rl.SetMetrics(s.metrics)

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(s.logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(s.logger, s.metrics, s.config.Metrics.Path).Handler)

	// Health check
	r.Get("/health", s.handleHealth)

	// Prometheus metrics
	if s.config.Metrics.Enabled {
		h := deps.MetricsHandler
		if h == nil {
			h = metrics.Handler()
		}
		r.Method(http.MethodGet, s.config.Metrics.Path, h)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rl.Handler)

		// Reporting
		r.Get("/campaigns", s.handleCampaigns)
		r.Get("/campaigns/export.csv", s.handleExport)
		r.Get("/summary", s.handleSummary)
		r.Get("/summary/platforms", s.handlePlatformSummary)
		r.Get("/breakdown", s.handleBreakdown)
		r.Get("/performance", s.handlePerformance)

		// AI insights
		r.Post("/insights/analysis", s.handleAnalysis)

		// Sessions
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Patch("/sessions/{id}", s.handleUpdateSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Post("/sessions/{id}/chat", s.handleChat)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.errorResponse(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range s.healthers {
		if err := check(ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}

	s.jsonResponseStatus(w, status, code)
}
