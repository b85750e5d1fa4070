package reporting

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/radiusdt/adpulse/internal/models"
)

// Mock trend bounds.
const (
	seriesSpendMin      = 500.0
	seriesSpendSpread   = 1000.0
	seriesMultiplierMin = 2.5
	seriesMultiplierMax = 5.5

	// MaxSeriesDays caps a requested window.
	MaxSeriesDays = 366
)

const dateLayout = "2006-01-02"

// SeriesGenerator produces synthetic daily spend/revenue points. It stands in
// for a real analytics feed, so values differ on every call.
type SeriesGenerator struct {
	float func() float64
	now   func() time.Time
}

// NewSeriesGenerator returns a generator backed by the global random source
// and the wall clock.
func NewSeriesGenerator() *SeriesGenerator {
	return &SeriesGenerator{float: rand.Float64, now: time.Now}
}

// NewSeriesGeneratorWith returns a generator using the given random source
// (values in [0,1)) and clock.
func NewSeriesGeneratorWith(float func() float64, now func() time.Time) *SeriesGenerator {
	return &SeriesGenerator{float: float, now: now}
}

var defaultSeries = NewSeriesGenerator()

// GenerateSeries returns days+1 points ending today using the default generator.
func GenerateSeries(days int) []models.PerformancePoint {
	return defaultSeries.Generate(days)
}

// Generate returns days+1 points, one per UTC calendar day from days ago up to
// today, ascending. Negative days are treated as zero.
func (g *SeriesGenerator) Generate(days int) []models.PerformancePoint {
	if days < 0 {
		days = 0
	}
	y, m, d := g.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	points := make([]models.PerformancePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		spend := seriesSpendMin + g.float()*seriesSpendSpread
		revenue := spend * (seriesMultiplierMin + g.float()*(seriesMultiplierMax-seriesMultiplierMin))
		points = append(points, models.PerformancePoint{
			Date:    today.AddDate(0, 0, -i).Format(dateLayout),
			Spend:   spend,
			Revenue: revenue,
			ROAS:    revenue / spend,
		})
	}
	return points
}

// ErrInvalidDateRange is returned for date ranges that cannot be parsed.
var ErrInvalidDateRange = errors.New("invalid date range")

// ParseDateRange converts a dashboard date-range preset into a day count for
// Generate. It accepts last_7_days/7d, last_30_days/30d, month_to_date/mtd and
// a bare non-negative number of days. An empty value means 30 days.
func ParseDateRange(s string, now time.Time) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "last_30_days", "30d":
		return 30, nil
	case "last_7_days", "7d":
		return 7, nil
	case "month_to_date", "mtd":
		return now.UTC().Day() - 1, nil
	}

	n, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
	if err != nil || n < 0 || n > MaxSeriesDays {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}
	return n, nil
}
