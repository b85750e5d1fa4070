package models

import (
	"errors"
	"fmt"
	"strings"
)

// Platform is the ad network a campaign runs on.
type Platform string

const (
	PlatformMeta   Platform = "Meta"
	PlatformGoogle Platform = "Google"
)

// Platforms lists every supported ad network in display order.
var Platforms = []Platform{PlatformMeta, PlatformGoogle}

// CampaignStatus is a descriptive lifecycle tag. It never affects computation.
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusLearning CampaignStatus = "learning"
)

// CampaignMetric holds one campaign's counters for one reporting period.
// Counters are expected to satisfy clicks <= impressions and
// conversions <= clicks; nothing here enforces it.
type CampaignMetric struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Platform Platform       `json:"platform"`
	Status   CampaignStatus `json:"status"`
	Date     string         `json:"date"` // YYYY-MM-DD

	// Financial
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`

	// Volume
	Impressions int64 `json:"impressions"`
	Reach       int64 `json:"reach"`
	Clicks      int64 `json:"clicks"`
	Conversions int64 `json:"conversions"`
}

// PlatformFilter selects a subset of campaigns by platform.
type PlatformFilter string

const (
	PlatformFilterAll    PlatformFilter = "All"
	PlatformFilterMeta   PlatformFilter = PlatformFilter(PlatformMeta)
	PlatformFilterGoogle PlatformFilter = PlatformFilter(PlatformGoogle)
)

// ErrInvalidPlatform is returned when a platform selector cannot be parsed.
var ErrInvalidPlatform = errors.New("invalid platform")

// ParsePlatformFilter accepts "All", "Meta" or "Google" in any case.
// An empty string selects all platforms.
func ParsePlatformFilter(s string) (PlatformFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PlatformFilterAll, nil
	case "meta":
		return PlatformFilterMeta, nil
	case "google":
		return PlatformFilterGoogle, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
}

// Matches reports whether a campaign on platform p passes the filter.
func (f PlatformFilter) Matches(p Platform) bool {
	return f == PlatformFilterAll || Platform(f) == p
}

// AggregatedMetrics is derived from a set of campaigns on every request.
type AggregatedMetrics struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalConversions int64   `json:"total_conversions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalImpressions int64   `json:"total_impressions"`

	AvgROAS float64 `json:"avg_roas"`
	AvgCPA  float64 `json:"avg_cpa"`
	AvgCTR  float64 `json:"avg_ctr"` // percent
	AvgCPC  float64 `json:"avg_cpc"`
}

// PlatformMetrics pairs a platform with its aggregate.
type PlatformMetrics struct {
	Platform Platform          `json:"platform"`
	Metrics  AggregatedMetrics `json:"metrics"`
}

// PerformancePoint is one day of the spend/revenue trend.
type PerformancePoint struct {
	Date    string  `json:"date"`
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`
	ROAS    float64 `json:"roas"`
}

// ChartCampaign is a campaign row shaped for the spend-vs-revenue chart.
type ChartCampaign struct {
	Name     string   `json:"name"`
	Spend    float64  `json:"spend"`
	Revenue  float64  `json:"revenue"`
	Platform Platform `json:"platform"`
}
