package reporting

import (
	"github.com/radiusdt/adpulse/internal/models"
)

const (
	// DefaultChartLimit is how many campaigns the spend-vs-revenue chart shows.
	DefaultChartLimit = 5

	chartNameMax = 15
)

// TopCampaigns shapes the first n campaigns for the spend-vs-revenue chart.
// Names longer than 15 characters are cut and suffixed with "...".
// A non-positive n falls back to DefaultChartLimit.
func TopCampaigns(records []models.CampaignMetric, n int) []models.ChartCampaign {
	if n <= 0 {
		n = DefaultChartLimit
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]models.ChartCampaign, 0, n)
	for _, c := range records[:n] {
		out = append(out, models.ChartCampaign{
			Name:     shortName(c.Name),
			Spend:    c.Spend,
			Revenue:  c.Revenue,
			Platform: c.Platform,
		})
	}
	return out
}

func shortName(name string) string {
	r := []rune(name)
	if len(r) <= chartNameMax {
		return name
	}
	return string(r[:chartNameMax]) + "..."
}
