package prompt

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/models"
	"github.com/phalouvas/cognitive-folio/internal/services/period"
)

// fakeSecurityStore serves securities from a map.
type fakeSecurityStore struct {
	securities map[string]*models.Security
}

func (f *fakeSecurityStore) Get(_ context.Context, id string) (*models.Security, error) {
	if s, ok := f.securities[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("security %s not found", id)
}

func (f *fakeSecurityStore) GetBySymbol(_ context.Context, symbol string) (*models.Security, error) {
	for _, s := range f.securities {
		if s.Symbol == symbol {
			return s, nil
		}
	}
	return nil, fmt.Errorf("security %s not found", symbol)
}

func (f *fakeSecurityStore) Save(_ context.Context, s *models.Security) error {
	f.securities[s.ID] = s
	return nil
}

func (f *fakeSecurityStore) Delete(_ context.Context, id string) error {
	delete(f.securities, id)
	return nil
}

func (f *fakeSecurityStore) List(_ context.Context) ([]*models.Security, error) {
	out := make([]*models.Security, 0, len(f.securities))
	for _, s := range f.securities {
		out = append(out, s)
	}
	return out, nil
}

// fakePortfolioStore serves portfolios from a map.
type fakePortfolioStore struct {
	portfolios map[string]*models.Portfolio
}

func (f *fakePortfolioStore) Get(_ context.Context, id string) (*models.Portfolio, error) {
	if p, ok := f.portfolios[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("portfolio %s not found", id)
}

func (f *fakePortfolioStore) Save(_ context.Context, p *models.Portfolio) error {
	f.portfolios[p.ID] = p
	return nil
}

func (f *fakePortfolioStore) Delete(_ context.Context, id string) error {
	delete(f.portfolios, id)
	return nil
}

func (f *fakePortfolioStore) List(_ context.Context) ([]*models.Portfolio, error) {
	out := make([]*models.Portfolio, 0, len(f.portfolios))
	for _, p := range f.portfolios {
		out = append(out, p)
	}
	return out, nil
}

// fakePeriodService serves periods from a slice with the same ordering
// semantics as the real period service.
type fakePeriodService struct {
	periods []*models.FinancialPeriod
}

func (f *fakePeriodService) matching(securityID, periodType string) []*models.FinancialPeriod {
	var out []*models.FinancialPeriod
	for _, p := range f.periods {
		if p.SecurityID == securityID && p.PeriodType == periodType {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear > b.FiscalYear
		}
		return a.QuarterNumber() > b.QuarterNumber()
	})
	return out
}

func (f *fakePeriodService) Find(_ context.Context, securityID, periodType string, fiscalYear int, fiscalQuarter string) (*models.FinancialPeriod, error) {
	for _, p := range f.matching(securityID, periodType) {
		if p.FiscalYear != fiscalYear {
			continue
		}
		if periodType == models.PeriodTypeQuarterly && p.FiscalQuarter != fiscalQuarter {
			continue
		}
		return p, nil
	}
	return nil, nil
}

func (f *fakePeriodService) FindLatest(ctx context.Context, securityID, periodType string) (*models.FinancialPeriod, error) {
	periods, err := f.FindRecent(ctx, securityID, periodType, 1)
	if err != nil || len(periods) == 0 {
		return nil, err
	}
	return periods[0], nil
}

func (f *fakePeriodService) FindRecent(_ context.Context, securityID, periodType string, limit int) ([]*models.FinancialPeriod, error) {
	periods := f.matching(securityID, periodType)
	if limit > 0 && len(periods) > limit {
		periods = periods[:limit]
	}
	return periods, nil
}

// newTestService builds a Service over in-memory fakes with a fixed clock
// (2025-08-15) so relative and natural-language period defaults are stable.
func newTestService(t *testing.T, securities []*models.Security, portfolios []*models.Portfolio, periods []*models.FinancialPeriod) *Service {
	t.Helper()

	secStore := &fakeSecurityStore{securities: map[string]*models.Security{}}
	for _, s := range securities {
		secStore.securities[s.ID] = s
	}
	pfStore := &fakePortfolioStore{portfolios: map[string]*models.Portfolio{}}
	for _, p := range portfolios {
		pfStore.portfolios[p.ID] = p
	}

	svc := NewService(
		secStore,
		pfStore,
		&fakePeriodService{periods: periods},
		period.NewFormatter(),
		nil,
		common.NewSilentLogger(),
	)
	svc.now = func() time.Time {
		return time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	}
	return svc
}

func quarterlyPeriod(securityID string, year int, quarter string, revenue, netIncome float64) *models.FinancialPeriod {
	return &models.FinancialPeriod{
		ID:            fmt.Sprintf("%s-%d%s", securityID, year, quarter),
		SecurityID:    securityID,
		PeriodType:    models.PeriodTypeQuarterly,
		FiscalYear:    year,
		FiscalQuarter: quarter,
		TotalRevenue:  revenue,
		NetIncome:     netIncome,
	}
}

func annualPeriod(securityID string, year int, revenue, netIncome float64) *models.FinancialPeriod {
	return &models.FinancialPeriod{
		ID:           fmt.Sprintf("%s-%d", securityID, year),
		SecurityID:   securityID,
		PeriodType:   models.PeriodTypeAnnual,
		FiscalYear:   year,
		TotalRevenue: revenue,
		NetIncome:    netIncome,
	}
}
