package storage

import (
	"context"
	"errors"

	"github.com/radiusdt/adpulse/internal/models"
)

// ErrSourceUnavailable wraps any failure to read from a campaign feed.
var ErrSourceUnavailable = errors.New("campaign source unavailable")

// CampaignSource supplies the campaign records of the connected ad account.
// Implementations return records in a stable order and never filter them.
type CampaignSource interface {
	ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error)
	// Name identifies the source in logs and metrics.
	Name() string
}
