// Package period provides financial period lookup and formatting services
package period

import (
	"context"
	"fmt"
	"sort"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// Service implements PeriodService over the period store.
type Service struct {
	store  interfaces.PeriodStore
	logger *common.Logger
}

// NewService creates a new period lookup service.
func NewService(store interfaces.PeriodStore, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{store: store, logger: logger}
}

// Find returns the period matching the exact coordinates, or nil.
// When duplicate periods exist for the same fiscal coordinates (data from
// multiple sources), the highest data-quality score wins, then the most
// recently updated.
func (s *Service) Find(ctx context.Context, securityID, periodType string, fiscalYear int, fiscalQuarter string) (*models.FinancialPeriod, error) {
	periods, err := s.ordered(ctx, securityID, periodType)
	if err != nil {
		return nil, err
	}
	for _, p := range periods {
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

// FindLatest returns the most recent period of the given type, or nil.
func (s *Service) FindLatest(ctx context.Context, securityID, periodType string) (*models.FinancialPeriod, error) {
	periods, err := s.FindRecent(ctx, securityID, periodType, 1)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}
	return periods[0], nil
}

// FindRecent returns up to limit most recent periods, newest first, with
// duplicate fiscal coordinates collapsed to the best-quality record.
func (s *Service) FindRecent(ctx context.Context, securityID, periodType string, limit int) ([]*models.FinancialPeriod, error) {
	periods, err := s.ordered(ctx, securityID, periodType)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(periods))
	result := make([]*models.FinancialPeriod, 0, limit)
	for _, p := range periods {
		key := p.Label()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, p)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// ordered fetches all periods of a type for a security sorted by fiscal
// year descending, fiscal quarter descending, then data quality descending
// and recency descending as the duplicate tie-break.
func (s *Service) ordered(ctx context.Context, securityID, periodType string) ([]*models.FinancialPeriod, error) {
	periods, err := s.store.FindBySecurity(ctx, securityID, periodType)
	if err != nil {
		return nil, fmt.Errorf("find periods for %s: %w", securityID, err)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear > b.FiscalYear
		}
		if a.QuarterNumber() != b.QuarterNumber() {
			return a.QuarterNumber() > b.QuarterNumber()
		}
		if a.DataQuality != b.DataQuality {
			return a.DataQuality > b.DataQuality
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	return periods, nil
}

// Ensure Service implements PeriodService
var _ interfaces.PeriodService = (*Service)(nil)
