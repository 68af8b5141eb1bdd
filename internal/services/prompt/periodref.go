package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

// PeriodRef is a concrete period coordinate resolved from an absolute label
// ("2024", "2024Q3") or a relative keyword ("previous_quarterly", ...).
type PeriodRef struct {
	Year    int
	Quarter string // Q1..Q4, empty for annual
	Type    string // models.PeriodTypeAnnual | models.PeriodTypeQuarterly
}

// Label returns the fiscal label: "2024 Q3" or "2024".
func (r *PeriodRef) Label() string {
	if r == nil {
		return ""
	}
	if r.Quarter != "" {
		return fmt.Sprintf("%d %s", r.Year, r.Quarter)
	}
	return strconv.Itoa(r.Year)
}

// annualOffsets maps relative annual keywords to years back from latest.
var annualOffsets = map[string]int{
	"latest_annual":   0,
	"previous_annual": 1,
	"annual_minus_2":  2,
	"annual_minus_3":  3,
	"annual_minus_4":  4,
}

var quarterlyKeywords = map[string]bool{
	"latest_quarterly":   true,
	"previous_quarterly": true,
	"yoy_quarterly":      true,
}

func isRelativeKeyword(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	_, annual := annualOffsets[lower]
	return annual || quarterlyKeywords[lower]
}

// parseAbsoluteRef parses "2024" (annual) or "2024Q3" (quarterly).
// Returns nil on any parse failure.
func parseAbsoluteRef(label string) *PeriodRef {
	label = strings.ToUpper(strings.TrimSpace(label))
	if i := strings.Index(label, "Q"); i >= 0 {
		year, err := strconv.Atoi(label[:i])
		if err != nil {
			return nil
		}
		quarter := label[i:]
		switch quarter {
		case "Q1", "Q2", "Q3", "Q4":
		default:
			return nil
		}
		return &PeriodRef{Year: year, Quarter: quarter, Type: models.PeriodTypeQuarterly}
	}
	year, err := strconv.Atoi(label)
	if err != nil {
		return nil
	}
	return &PeriodRef{Year: year, Type: models.PeriodTypeAnnual}
}

// resolvePeriodRef turns a period reference into concrete coordinates.
// Relative keywords anchor on the security's latest period of the matching
// type; if the security has no such period, resolution fails (nil).
//
// Relative annual keywords step back arithmetically from the latest year
// without checking that the earlier period exists — a missing period is
// discovered when metrics are fetched, not here.
func (s *Service) resolvePeriodRef(ctx context.Context, securityID, ref string) *PeriodRef {
	lower := strings.ToLower(strings.TrimSpace(ref))

	if offset, ok := annualOffsets[lower]; ok {
		latest, err := s.periods.FindLatest(ctx, securityID, models.PeriodTypeAnnual)
		if err != nil || latest == nil {
			return nil
		}
		return &PeriodRef{Year: latest.FiscalYear - offset, Type: models.PeriodTypeAnnual}
	}

	if quarterlyKeywords[lower] {
		latest, err := s.periods.FindLatest(ctx, securityID, models.PeriodTypeQuarterly)
		if err != nil || latest == nil || latest.QuarterNumber() == 0 {
			return nil
		}
		switch lower {
		case "latest_quarterly":
			return &PeriodRef{Year: latest.FiscalYear, Quarter: latest.FiscalQuarter, Type: models.PeriodTypeQuarterly}
		case "previous_quarterly":
			year, quarter := previousQuarter(latest.FiscalYear, latest.QuarterNumber())
			return &PeriodRef{Year: year, Quarter: quarterName(quarter), Type: models.PeriodTypeQuarterly}
		case "yoy_quarterly":
			return &PeriodRef{Year: latest.FiscalYear - 1, Quarter: latest.FiscalQuarter, Type: models.PeriodTypeQuarterly}
		}
	}

	return parseAbsoluteRef(ref)
}

// resolvePeriodPair resolves both sides of a comparison. The error names
// which side failed and why.
func (s *Service) resolvePeriodPair(ctx context.Context, securityID, ref1, ref2 string) (*PeriodRef, *PeriodRef, error) {
	first := s.resolvePeriodRef(ctx, securityID, ref1)
	if first == nil {
		return nil, nil, refError(ref1)
	}
	second := s.resolvePeriodRef(ctx, securityID, ref2)
	if second == nil {
		return nil, nil, refError(ref2)
	}
	return first, second, nil
}

func refError(ref string) error {
	if isRelativeKeyword(ref) {
		return fmt.Errorf("Insufficient historical data for %s", ref)
	}
	return fmt.Errorf("Invalid period specification: %s", ref)
}

// previousQuarter steps one quarter back, wrapping Q1 to Q4 of the prior year.
func previousQuarter(year, quarter int) (int, int) {
	if quarter <= 1 {
		return year - 1, 4
	}
	return year, quarter - 1
}

func quarterName(q int) string {
	return "Q" + strconv.Itoa(q)
}
