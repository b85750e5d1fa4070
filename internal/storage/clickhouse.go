package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/radiusdt/adpulse/internal/models"
)

const listCampaignsCHSQL = `
	SELECT
		id,
		any(name)                 AS name,
		any(platform)             AS platform,
		any(status)               AS status,
		toString(min(event_date)) AS report_date,
		toFloat64(sum(spend))     AS spend,
		toFloat64(sum(revenue))   AS revenue,
		toInt64(sum(impressions)) AS impressions,
		toInt64(max(reach))       AS reach,
		toInt64(sum(clicks))      AS clicks,
		toInt64(sum(conversions)) AS conversions
	FROM campaign_daily
	GROUP BY id
	ORDER BY report_date, id
`

// ClickHouseCampaignSource rolls daily campaign rows from ClickHouse up into
// one record per campaign.
type ClickHouseCampaignSource struct {
	conn driver.Conn
}

// NewClickHouseCampaignSource creates a source backed by a ClickHouse connection.
func NewClickHouseCampaignSource(conn driver.Conn) *ClickHouseCampaignSource {
	return &ClickHouseCampaignSource{conn: conn}
}

func (s *ClickHouseCampaignSource) ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error) {
	rows, err := s.conn.Query(ctx, listCampaignsCHSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query campaign_daily: %w", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	campaigns := make([]models.CampaignMetric, 0)
	for rows.Next() {
		var (
			c                models.CampaignMetric
			platform, status string
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &platform, &status, &c.Date,
			&c.Spend, &c.Revenue,
			&c.Impressions, &c.Reach, &c.Clicks, &c.Conversions,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan campaign: %w", ErrSourceUnavailable, err)
		}
		c.Platform = models.Platform(platform)
		c.Status = models.CampaignStatus(status)
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return campaigns, nil
}

func (s *ClickHouseCampaignSource) Name() string { return "clickhouse" }
