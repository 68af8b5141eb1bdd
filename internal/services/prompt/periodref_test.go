package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

func TestParseAbsoluteRef(t *testing.T) {
	tests := []struct {
		label       string
		wantYear    int
		wantQuarter string
		wantType    string
		wantNil     bool
	}{
		{label: "2024", wantYear: 2024, wantType: models.PeriodTypeAnnual},
		{label: "2024Q3", wantYear: 2024, wantQuarter: "Q3", wantType: models.PeriodTypeQuarterly},
		{label: "2024q1", wantYear: 2024, wantQuarter: "Q1", wantType: models.PeriodTypeQuarterly},
		{label: " 2023 ", wantYear: 2023, wantType: models.PeriodTypeAnnual},
		{label: "2024Q5", wantNil: true},
		{label: "Q3", wantNil: true},
		{label: "twentytwentyfour", wantNil: true},
		{label: "2024Q", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			ref := parseAbsoluteRef(tt.label)
			if tt.wantNil {
				if ref != nil {
					t.Fatalf("expected nil, got %+v", ref)
				}
				return
			}
			if ref == nil {
				t.Fatalf("expected ref, got nil")
			}
			if ref.Year != tt.wantYear || ref.Quarter != tt.wantQuarter || ref.Type != tt.wantType {
				t.Errorf("got %+v, want year=%d quarter=%q type=%q", ref, tt.wantYear, tt.wantQuarter, tt.wantType)
			}
		})
	}
}

func TestResolvePeriodRef_RelativeQuarterly(t *testing.T) {
	// Latest quarterly on record is 2024 Q1.
	svc := newTestService(t, nil, nil, []*models.FinancialPeriod{
		quarterlyPeriod("sec1", 2023, "Q3", 90, 9),
		quarterlyPeriod("sec1", 2023, "Q4", 95, 10),
		quarterlyPeriod("sec1", 2024, "Q1", 100, 11),
	})
	ctx := context.Background()

	tests := []struct {
		ref         string
		wantYear    int
		wantQuarter string
	}{
		{"latest_quarterly", 2024, "Q1"},
		// Q1 wraps back to Q4 of the prior fiscal year.
		{"previous_quarterly", 2023, "Q4"},
		{"yoy_quarterly", 2023, "Q1"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref := svc.resolvePeriodRef(ctx, "sec1", tt.ref)
			if ref == nil {
				t.Fatalf("expected ref, got nil")
			}
			if ref.Year != tt.wantYear || ref.Quarter != tt.wantQuarter {
				t.Errorf("%s resolved to %d %s, want %d %s", tt.ref, ref.Year, ref.Quarter, tt.wantYear, tt.wantQuarter)
			}
		})
	}
}

func TestResolvePeriodRef_RelativeAnnual(t *testing.T) {
	svc := newTestService(t, nil, nil, []*models.FinancialPeriod{
		annualPeriod("sec1", 2022, 800, 80),
		annualPeriod("sec1", 2023, 900, 90),
		annualPeriod("sec1", 2024, 1000, 100),
	})
	ctx := context.Background()

	tests := []struct {
		ref      string
		wantYear int
	}{
		{"latest_annual", 2024},
		{"previous_annual", 2023},
		{"annual_minus_2", 2022},
		// Arithmetic stepping does not require the period to exist.
		{"annual_minus_4", 2020},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref := svc.resolvePeriodRef(ctx, "sec1", tt.ref)
			if ref == nil {
				t.Fatalf("expected ref, got nil")
			}
			if ref.Year != tt.wantYear || ref.Quarter != "" {
				t.Errorf("%s resolved to %+v, want year %d annual", tt.ref, ref, tt.wantYear)
			}
		})
	}
}

func TestResolvePeriodRef_NoHistory(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	ctx := context.Background()

	if ref := svc.resolvePeriodRef(ctx, "sec1", "latest_annual"); ref != nil {
		t.Errorf("expected nil without history, got %+v", ref)
	}
	if ref := svc.resolvePeriodRef(ctx, "sec1", "previous_quarterly"); ref != nil {
		t.Errorf("expected nil without history, got %+v", ref)
	}
	// Absolute references need no history.
	if ref := svc.resolvePeriodRef(ctx, "sec1", "2022"); ref == nil || ref.Year != 2022 {
		t.Errorf("expected absolute 2022, got %+v", ref)
	}
}

func TestResolvePeriodPair_Errors(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	ctx := context.Background()

	_, _, err := svc.resolvePeriodPair(ctx, "sec1", "latest_annual", "2023")
	if err == nil || !strings.Contains(err.Error(), "Insufficient historical data for latest_annual") {
		t.Errorf("expected insufficient-data error, got %v", err)
	}

	_, _, err = svc.resolvePeriodPair(ctx, "sec1", "2023", "garbage")
	if err == nil || !strings.Contains(err.Error(), "Invalid period specification: garbage") {
		t.Errorf("expected invalid-reference error, got %v", err)
	}
}

func TestPreviousQuarter(t *testing.T) {
	if y, q := previousQuarter(2024, 1); y != 2023 || q != 4 {
		t.Errorf("previousQuarter(2024, 1) = %d, %d", y, q)
	}
	if y, q := previousQuarter(2024, 3); y != 2024 || q != 2 {
		t.Errorf("previousQuarter(2024, 3) = %d, %d", y, q)
	}
}

func TestPeriodRefLabel(t *testing.T) {
	annual := &PeriodRef{Year: 2024, Type: models.PeriodTypeAnnual}
	if annual.Label() != "2024" {
		t.Errorf("annual label = %q", annual.Label())
	}
	quarterly := &PeriodRef{Year: 2024, Quarter: "Q3", Type: models.PeriodTypeQuarterly}
	if quarterly.Label() != "2024 Q3" {
		t.Errorf("quarterly label = %q", quarterly.Label())
	}
}
