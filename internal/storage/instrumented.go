package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/models"
)

// InstrumentedSource logs and times every read of the wrapped source.
type InstrumentedSource struct {
	next    CampaignSource
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewInstrumentedSource wraps next. m may be nil.
func NewInstrumentedSource(next CampaignSource, logger *zap.Logger, m *metrics.Metrics) *InstrumentedSource {
	return &InstrumentedSource{next: next, logger: logger, metrics: m}
}

func (s *InstrumentedSource) ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error) {
	start := time.Now()
	campaigns, err := s.next.ListCampaigns(ctx)
	elapsed := time.Since(start)

	canceled := errors.Is(err, context.Canceled)
	if s.metrics != nil && !canceled {
		s.metrics.RecordSourceRead(s.next.Name(), err, elapsed)
	}
	if canceled {
		s.logger.Debug("campaign source read canceled",
			zap.String("source", s.next.Name()),
			zap.Duration("duration", elapsed),
		)
		return nil, err
	}
	if err != nil {
		s.logger.Error("campaign source read failed",
			zap.String("source", s.next.Name()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("campaign source read",
		zap.String("source", s.next.Name()),
		zap.Int("campaigns", len(campaigns)),
		zap.Duration("duration", elapsed),
	)
	return campaigns, nil
}

func (s *InstrumentedSource) Name() string { return s.next.Name() }
