package period

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

func samplePeriods() []*models.FinancialPeriod {
	return []*models.FinancialPeriod{
		{
			PeriodType: models.PeriodTypeQuarterly, FiscalYear: 2025, FiscalQuarter: "Q1",
			TotalRevenue: 260.5, NetIncome: 26, GrossMargin: 45.5, OperatingMargin: 30, NetMargin: 10,
		},
		{
			PeriodType: models.PeriodTypeAnnual, FiscalYear: 2024,
			TotalRevenue: 1000, NetIncome: 100, GrossMargin: 44, OperatingMargin: 29, NetMargin: 10, EPS: 6.1,
		},
	}
}

func TestRender_Empty(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, "", f.Render(nil, "markdown"))
	assert.Equal(t, "", f.Render([]*models.FinancialPeriod{}, "json"))
}

func TestRender_Markdown(t *testing.T) {
	f := NewFormatter()
	got := f.Render(samplePeriods(), "markdown")

	assert.Contains(t, got, "| Period | Revenue | Net Income | Gross Margin | Op Margin | Net Margin |")
	assert.Contains(t, got, "| 2025 Q1 | $260.50 | $26.00 | 45.50% | 30.00% | 10.00% |")
	assert.Contains(t, got, "| 2024 | $1000.00 | $100.00 |")
}

func TestRender_JSON(t *testing.T) {
	f := NewFormatter()
	got := f.Render(samplePeriods(), "json")

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "2025 Q1", entries[0]["period"])
	assert.Equal(t, float64(2024), entries[1]["fiscal_year"])
	assert.Equal(t, 6.1, entries[1]["eps"])
}

func TestRender_UnknownFormatFallsBackToMarkdown(t *testing.T) {
	f := NewFormatter()
	got := f.Render(samplePeriods(), "yaml")
	assert.True(t, strings.HasPrefix(got, "| Period |"), "unknown format should render markdown, got:\n%s", got)
}
