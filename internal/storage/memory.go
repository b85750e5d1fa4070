package storage

import (
	"context"
	"sync"

	"github.com/radiusdt/adpulse/internal/models"
)

// SampleCampaigns returns the demo ad account used when no warehouse is
// configured.
func SampleCampaigns() []models.CampaignMetric {
	return []models.CampaignMetric{
		{ID: "1", Name: "Summer Sale - US", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Date: "2023-10-01",
			Spend: 12500, Impressions: 450000, Reach: 210000, Clicks: 8500, Conversions: 420, Revenue: 38000},
		{ID: "2", Name: "Prospecting - Lookalikes", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Date: "2023-10-02",
			Spend: 8400, Impressions: 320000, Reach: 180000, Clicks: 5200, Conversions: 180, Revenue: 15200},
		{ID: "3", Name: "Search - Brand Terms", Platform: models.PlatformGoogle, Status: models.CampaignStatusActive, Date: "2023-10-03",
			Spend: 4500, Impressions: 85000, Reach: 62000, Clicks: 12000, Conversions: 350, Revenue: 28000},
		{ID: "4", Name: "YouTube Remarketing", Platform: models.PlatformGoogle, Status: models.CampaignStatusLearning, Date: "2023-10-04",
			Spend: 6200, Impressions: 1200000, Reach: 850000, Clicks: 4200, Conversions: 95, Revenue: 8100},
		{ID: "5", Name: "Retargeting - Catalog", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Date: "2023-10-05",
			Spend: 3200, Impressions: 95000, Reach: 45000, Clicks: 4800, Conversions: 210, Revenue: 19500},
		{ID: "6", Name: "Performance Max - Ecom", Platform: models.PlatformGoogle, Status: models.CampaignStatusActive, Date: "2023-10-06",
			Spend: 15000, Impressions: 1850000, Reach: 1100000, Clicks: 22000, Conversions: 610, Revenue: 54000},
		{ID: "7", Name: "Lead Gen - B2B", Platform: models.PlatformMeta, Status: models.CampaignStatusPaused, Date: "2023-10-07",
			Spend: 2100, Impressions: 45000, Reach: 32000, Clicks: 850, Conversions: 25, Revenue: 0},
	}
}

// InMemoryCampaignSource serves a fixed list of campaigns.
type InMemoryCampaignSource struct {
	mu        sync.RWMutex
	campaigns []models.CampaignMetric
}

// NewInMemoryCampaignSource creates a source holding a copy of campaigns.
func NewInMemoryCampaignSource(campaigns []models.CampaignMetric) *InMemoryCampaignSource {
	s := &InMemoryCampaignSource{}
	s.Replace(campaigns)
	return s
}

// ListCampaigns returns a copy of the stored campaigns in insertion order.
func (s *InMemoryCampaignSource) ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CampaignMetric, len(s.campaigns))
	copy(out, s.campaigns)
	return out, nil
}

// Replace swaps the whole account snapshot.
func (s *InMemoryCampaignSource) Replace(campaigns []models.CampaignMetric) {
	cp := make([]models.CampaignMetric, len(campaigns))
	copy(cp, campaigns)
	s.mu.Lock()
	s.campaigns = cp
	s.mu.Unlock()
}

func (s *InMemoryCampaignSource) Name() string { return "memory" }
