package models

import (
	"fmt"
	"strings"
	"time"
)

// Period types for financial reporting periods.
const (
	PeriodTypeAnnual    = "Annual"
	PeriodTypeQuarterly = "Quarterly"
)

// NormalizePeriodType maps user-supplied period type strings ("annual",
// "QUARTERLY") to the canonical constants. Returns "" for unknown types.
func NormalizePeriodType(s string) string {
	switch {
	case strings.EqualFold(s, "annual"):
		return PeriodTypeAnnual
	case strings.EqualFold(s, "quarterly"):
		return PeriodTypeQuarterly
	default:
		return ""
	}
}

// FinancialPeriod is one reporting period (Annual or Quarterly) for a
// security, carrying an immutable snapshot of financial metrics.
type FinancialPeriod struct {
	ID            string  `json:"id" badgerhold:"key"`
	SecurityID    string  `json:"security_id" badgerhold:"index"`
	PeriodType    string  `json:"period_type"`              // Annual | Quarterly
	FiscalYear    int     `json:"fiscal_year"`
	FiscalQuarter string  `json:"fiscal_quarter,omitempty"` // Q1..Q4, empty for annual
	PeriodEnd     string  `json:"period_end,omitempty"`     // ISO date of period close

	TotalRevenue    float64 `json:"total_revenue"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingIncome float64 `json:"operating_income"`
	NetIncome       float64 `json:"net_income"`
	GrossMargin     float64 `json:"gross_margin"`     // percent
	OperatingMargin float64 `json:"operating_margin"` // percent
	NetMargin       float64 `json:"net_margin"`       // percent
	EPS             float64 `json:"eps,omitempty"`
	Currency        string  `json:"currency,omitempty"`

	// DataQuality ranks duplicate periods from different sources; the
	// highest score wins when the same fiscal period appears twice.
	DataQuality float64   `json:"data_quality,omitempty"`
	Source      string    `json:"source,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label returns the fiscal label for display: "2024 Q3" or "2024".
func (p *FinancialPeriod) Label() string {
	if p == nil {
		return ""
	}
	if p.FiscalQuarter != "" {
		return fmt.Sprintf("%d %s", p.FiscalYear, p.FiscalQuarter)
	}
	return fmt.Sprintf("%d", p.FiscalYear)
}

// QuarterNumber returns 1..4 for quarterly periods, 0 otherwise.
func (p *FinancialPeriod) QuarterNumber() int {
	switch p.FiscalQuarter {
	case "Q1":
		return 1
	case "Q2":
		return 2
	case "Q3":
		return 3
	case "Q4":
		return 4
	default:
		return 0
	}
}
