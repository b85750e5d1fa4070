package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/config"
	"github.com/radiusdt/adpulse/internal/database"
	"github.com/radiusdt/adpulse/internal/httpserver"
	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/middleware"
	"github.com/radiusdt/adpulse/internal/session"
)

func main() {
	// Optional .env for local runs.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting AdPulse",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
		zap.String("source", cfg.Source.Kind),
		zap.Bool("ai_enabled", cfg.AIEnabled()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(cfg.Metrics.Namespace, nil)
	}

	// Initialize database connections
	var (
		db    *database.PostgresDB
		ch    *database.ClickHouseDB
		redis *database.RedisDB
	)

	switch cfg.Source.Kind {
	case config.SourcePostgres:
		connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
		db, err = database.NewPostgresDB(connectCtx, cfg.Database, logger)
		connectCancel()
		if err != nil {
			logger.Warn("PostgreSQL not available, serving sample account", zap.Error(err))
			db = nil
		} else {
			defer db.Close()
		}
	case config.SourceClickHouse:
		connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
		ch, err = database.NewClickHouseDB(connectCtx, cfg.ClickHouse, logger)
		connectCancel()
		if err != nil {
			logger.Warn("ClickHouse not available, serving sample account", zap.Error(err))
			ch = nil
		} else {
			defer ch.Close()
		}
	}

	if cfg.Redis.Enabled {
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		redis, err = database.NewRedisDB(connectCtx, cfg.Redis, logger)
		connectCancel()
		if err != nil {
			logger.Warn("Redis not available, chat guard is local to this replica", zap.Error(err))
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	sessions := session.NewStore(cfg.Dashboard.DefaultRange)

	// Create HTTP server
	deps := &httpserver.Dependencies{
		DB:         db,
		ClickHouse: ch,
		Redis:      redis,
		Sessions:   sessions,
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpserver.NewServer(deps),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Expire idle sessions
	go func() {
		ticker := time.NewTicker(cfg.Session.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Cleanup(cfg.Session.IdleTTL); n > 0 {
					logger.Info("expired idle sessions", zap.Int("count", n))
				}
				if m != nil {
					m.SetActiveSessions(sessions.Len())
					if db != nil {
						db.ReportStats(m)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Stop background goroutines
	cancel()

	logger.Info("server stopped")
}
