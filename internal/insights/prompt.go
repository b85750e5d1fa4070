// Package insights builds the prompts sent to the generative model and runs
// the analysis and chat exchanges for a dashboard session.
package insights

import (
	"strconv"
	"strings"

	"github.com/radiusdt/adpulse/internal/models"
	"github.com/radiusdt/adpulse/internal/reporting"
)

const analysisPromptTemplate = `You are a Senior Paid Media Strategist with 7+ years of experience in Facebook and Google Ads.
Analyze the following campaign data and provide:
1. Performance Diagnosis (General overview)
2. Issues Detected (Specifically high CPA, low ROAS, or underperforming platforms)
3. Scaling Opportunities (Which campaigns have high potential)
4. Recommended Actions (Numbered priority list)

Campaign Data:
{{summary}}

Be concise, professional, and focus on growth and profitability.`

const chatContextTemplate = `You are a Senior Paid Media Strategist. You have access to the following ad account data:
{{summary}}

Answer user questions strictly based on this data and industry best practices. Focus on ROAS, CPA, and scalability.`

// FormatCampaignSummary renders one line per campaign:
//
//	Meta Campaign: Summer Sale - US, Spend: $12500, Revenue: $38000, ROAS: 3.04, Conversions: 420
func FormatCampaignSummary(records []models.CampaignMetric) string {
	lines := make([]string, 0, len(records))
	for _, c := range records {
		var b strings.Builder
		b.WriteString(string(c.Platform))
		b.WriteString(" Campaign: ")
		b.WriteString(c.Name)
		b.WriteString(", Spend: $")
		b.WriteString(strconv.FormatFloat(c.Spend, 'f', -1, 64))
		b.WriteString(", Revenue: $")
		b.WriteString(strconv.FormatFloat(c.Revenue, 'f', -1, 64))
		b.WriteString(", ROAS: ")
		b.WriteString(reporting.FormatFixed2(reporting.CampaignROAS(c)))
		b.WriteString(", Conversions: ")
		b.WriteString(strconv.FormatInt(c.Conversions, 10))
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// FormatAnalysisPrompt returns the full one-shot analysis prompt.
func FormatAnalysisPrompt(records []models.CampaignMetric) string {
	return strings.Replace(analysisPromptTemplate, "{{summary}}", FormatCampaignSummary(records), 1)
}

// FormatChatContext returns the system instruction for a chat exchange. It
// pins the model to the given account data, serialized like the analysis prompt.
func FormatChatContext(records []models.CampaignMetric) string {
	return strings.Replace(chatContextTemplate, "{{summary}}", FormatCampaignSummary(records), 1)
}
