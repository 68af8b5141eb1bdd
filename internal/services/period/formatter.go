package period

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// Formatter renders financial periods as markdown tables or JSON for
// inclusion in AI prompts.
type Formatter struct{}

// NewFormatter creates a period formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render formats periods in the requested format ("markdown" or "json").
// Unknown formats fall back to markdown. An empty period list renders "".
func (f *Formatter) Render(periods []*models.FinancialPeriod, format string) string {
	if len(periods) == 0 {
		return ""
	}
	if strings.EqualFold(format, "json") {
		return f.renderJSON(periods)
	}
	return f.renderMarkdown(periods)
}

func (f *Formatter) renderMarkdown(periods []*models.FinancialPeriod) string {
	var sb strings.Builder

	sb.WriteString("| Period | Revenue | Net Income | Gross Margin | Op Margin | Net Margin |\n")
	sb.WriteString("|--------|---------|------------|--------------|-----------|------------|\n")
	for _, p := range periods {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			p.Label(),
			common.FormatMoney(p.TotalRevenue),
			common.FormatMoney(p.NetIncome),
			common.FormatPct(p.GrossMargin),
			common.FormatPct(p.OperatingMargin),
			common.FormatPct(p.NetMargin)))
	}
	return sb.String()
}

func (f *Formatter) renderJSON(periods []*models.FinancialPeriod) string {
	type entry struct {
		Period          string  `json:"period"`
		FiscalYear      int     `json:"fiscal_year"`
		FiscalQuarter   string  `json:"fiscal_quarter,omitempty"`
		TotalRevenue    float64 `json:"total_revenue"`
		NetIncome       float64 `json:"net_income"`
		GrossMargin     float64 `json:"gross_margin"`
		OperatingMargin float64 `json:"operating_margin"`
		NetMargin       float64 `json:"net_margin"`
		EPS             float64 `json:"eps,omitempty"`
	}

	entries := make([]entry, 0, len(periods))
	for _, p := range periods {
		entries = append(entries, entry{
			Period:          p.Label(),
			FiscalYear:      p.FiscalYear,
			FiscalQuarter:   p.FiscalQuarter,
			TotalRevenue:    p.TotalRevenue,
			NetIncome:       p.NetIncome,
			GrossMargin:     p.GrossMargin,
			OperatingMargin: p.OperatingMargin,
			NetMargin:       p.NetMargin,
			EPS:             p.EPS,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// Ensure Formatter implements PeriodFormatter
var _ interfaces.PeriodFormatter = (*Formatter)(nil)
