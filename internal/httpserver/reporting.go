package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/models"
	"github.com/radiusdt/adpulse/internal/reporting"
)

// loadCampaigns reads the account and applies the platform filter.
func (s *Server) loadCampaigns(ctx context.Context, platform models.PlatformFilter) ([]models.CampaignMetric, error) {
	all, err := s.source.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	filtered := reporting.Filter(all, platform)
	if s.metrics != nil {
		s.metrics.RecordCampaignsServed(string(platform), len(filtered))
	}
	return filtered, nil
}

// platformParam reads ?platform=, defaulting to all platforms.
func platformParam(r *http.Request) (models.PlatformFilter, error) {
	return models.ParsePlatformFilter(r.URL.Query().Get("platform"))
}

// ---- Campaigns ----

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	platform, err := platformParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	campaigns, err := s.loadCampaigns(r.Context(), platform)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, campaigns)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	platform, err := platformParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	campaigns, err := s.loadCampaigns(r.Context(), platform)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteCSV(&buf, campaigns); err != nil {
		s.handleError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCSVExport()
	}

	s.logger.Info("campaign export generated",
		zap.String("platform", string(platform)),
		zap.Int("rows", len(campaigns)),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reporting.ExportFilename(s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ---- Summary ----

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	platform, err := platformParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	campaigns, err := s.loadCampaigns(r.Context(), platform)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, reporting.Aggregate(campaigns))
}

func (s *Server) handlePlatformSummary(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.loadCampaigns(r.Context(), models.PlatformFilterAll)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, reporting.AggregateByPlatform(campaigns))
}

// ---- Charts ----

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	platform, err := platformParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	limit := s.config.Dashboard.ChartLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	campaigns, err := s.loadCampaigns(r.Context(), platform)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, reporting.TopCampaigns(campaigns, limit))
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	// An explicit range wins over the session's stored one, then the default.
	q := r.URL.Query()
	expr := q.Get("range")
	if expr == "" {
		expr = q.Get("days")
	}
	if expr == "" && q.Get("session") != "" {
		sess, err := s.sessions.Get(q.Get("session"))
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		expr = sess.DateRange()
	}
	if expr == "" {
		expr = s.config.Dashboard.DefaultRange
	}

	days, err := reporting.ParseDateRange(expr, s.now())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, s.series.Generate(days))
}

// ---- AI Analysis ----

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	platform, err := platformParam(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	campaigns, err := s.loadCampaigns(r.Context(), platform)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	analysis := s.analysis.Analyze(r.Context(), campaigns)
	s.jsonResponse(w, map[string]string{"analysis": string(analysis)})
}
