package insights

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/models"
)

// AnalysisFallback is returned in place of an analysis the model failed to produce.
const AnalysisFallback = "Failed to generate AI analysis. Please try again."

// Analysis is free-form model output. It is displayed, never parsed.
type Analysis string

// AnalysisService produces one-shot strategic reviews of an ad account.
type AnalysisService struct {
	model   Model
	config  GenerationConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAnalysisService creates an analysis service. m may be nil.
func NewAnalysisService(model Model, cfg GenerationConfig, logger *zap.Logger, m *metrics.Metrics) *AnalysisService {
	return &AnalysisService{model: model, config: cfg, logger: logger, metrics: m}
}

// Analyze asks the model to review records. It always returns displayable
// text: any model failure yields AnalysisFallback.
func (s *AnalysisService) Analyze(ctx context.Context, records []models.CampaignMetric) Analysis {
	start := time.Now()
	text, err := s.model.Generate(ctx, Request{
		Contents: []models.ChatMessage{{Role: models.ChatRoleUser, Text: FormatAnalysisPrompt(records)}},
		Config:   s.config,
	})
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordAIRequest("analysis", err == nil, elapsed)
	}
	if err != nil {
		s.logger.Error("AI analysis failed",
			zap.Int("campaigns", len(records)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return AnalysisFallback
	}

	s.logger.Info("AI analysis generated",
		zap.Int("campaigns", len(records)),
		zap.Duration("duration", elapsed),
	)
	return Analysis(text)
}
