package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radiusdt/adpulse/internal/models"
)

// CSVHeader is the fixed column order of a campaign export.
var CSVHeader = []string{
	"Campaign Name",
	"Platform",
	"Status",
	"Spend",
	"Impressions",
	"Reach",
	"Clicks",
	"Conversions",
	"Revenue",
	"ROAS",
	"CPA",
}

// WriteCSV writes the campaigns as a comma-separated table. The name column
// is always quoted; ROAS and CPA are recomputed per campaign with two decimals.
func WriteCSV(w io.Writer, records []models.CampaignMetric) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range records {
		if _, err := bw.WriteString(csvRow(c) + "\n"); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}
	return bw.Flush()
}

func csvRow(c models.CampaignMetric) string {
	fields := []string{
		QuoteCSVField(c.Name),
		string(c.Platform),
		string(c.Status),
		formatNumber(c.Spend),
		strconv.FormatInt(c.Impressions, 10),
		strconv.FormatInt(c.Reach, 10),
		strconv.FormatInt(c.Clicks, 10),
		strconv.FormatInt(c.Conversions, 10),
		formatNumber(c.Revenue),
		FormatFixed2(CampaignROAS(c)),
		FormatFixed2(CampaignCPA(c)),
	}
	return strings.Join(fields, ",")
}

// QuoteCSVField doubles embedded quotes and wraps the value in quotes.
func QuoteCSVField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatFixed2 renders v with exactly two decimals.
func FormatFixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ExportFilename is the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "adpulse_export_" + t.UTC().Format(dateLayout) + ".csv"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
