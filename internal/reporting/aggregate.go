// Package reporting turns a campaign list into the figures a dashboard shows:
// platform filtering, totals with derived ratios, trend series, chart rows and
// CSV exports. Everything here is a pure function over its input.
package reporting

import (
	"github.com/radiusdt/adpulse/internal/models"
)

// Filter returns the campaigns that run on the selected platform, keeping
// their relative order. PlatformFilterAll returns records as given.
func Filter(records []models.CampaignMetric, platform models.PlatformFilter) []models.CampaignMetric {
	if platform == models.PlatformFilterAll {
		return records
	}
	out := make([]models.CampaignMetric, 0, len(records))
	for _, r := range records {
		if platform.Matches(r.Platform) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate folds campaigns into totals and average ratios. Each ratio is
// zero when its own denominator is zero.
func Aggregate(records []models.CampaignMetric) models.AggregatedMetrics {
	var m models.AggregatedMetrics
	for _, r := range records {
		m.TotalSpend += r.Spend
		m.TotalRevenue += r.Revenue
		m.TotalConversions += r.Conversions
		m.TotalClicks += r.Clicks
		m.TotalImpressions += r.Impressions
	}

	m.AvgROAS = safeDiv(m.TotalRevenue, m.TotalSpend)
	m.AvgCPA = safeDiv(m.TotalSpend, float64(m.TotalConversions))
	m.AvgCPC = safeDiv(m.TotalSpend, float64(m.TotalClicks))
	m.AvgCTR = safeDiv(float64(m.TotalClicks), float64(m.TotalImpressions)) * 100

	return m
}

// AggregateByPlatform aggregates each supported platform separately, in
// models.Platforms order. Platforms without campaigns get a zero aggregate.
func AggregateByPlatform(records []models.CampaignMetric) []models.PlatformMetrics {
	out := make([]models.PlatformMetrics, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		out = append(out, models.PlatformMetrics{
			Platform: p,
			Metrics:  Aggregate(Filter(records, models.PlatformFilter(p))),
		})
	}
	return out
}

// CampaignROAS is revenue over spend for a single campaign, or zero without spend.
func CampaignROAS(c models.CampaignMetric) float64 {
	return safeDiv(c.Revenue, c.Spend)
}

// CampaignCPA is spend per conversion for a single campaign, or zero without conversions.
func CampaignCPA(c models.CampaignMetric) float64 {
	return safeDiv(c.Spend, float64(c.Conversions))
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
