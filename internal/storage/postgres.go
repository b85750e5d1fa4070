package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/radiusdt/adpulse/internal/models"
)

// pgQuerier is the subset of pgxpool.Pool the campaign feed needs.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const listCampaignsSQL = `
	SELECT id, name, platform, status, report_date::text,
		   spend::float8, revenue::float8,
		   impressions, reach, clicks, conversions
	FROM campaign_metrics
	ORDER BY report_date, id
`

// PostgresCampaignSource reads campaign metrics from a PostgreSQL table.
type PostgresCampaignSource struct {
	db pgQuerier
}

// NewPostgresCampaignSource creates a source backed by a pgx pool.
func NewPostgresCampaignSource(db pgQuerier) *PostgresCampaignSource {
	return &PostgresCampaignSource{db: db}
}

func (s *PostgresCampaignSource) ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error) {
	rows, err := s.db.Query(ctx, listCampaignsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query campaigns: %w", ErrSourceUnavailable, err)
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

func (s *PostgresCampaignSource) Name() string { return "postgres" }
