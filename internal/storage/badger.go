// Package storage provides BadgerDB-based persistence
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// BadgerDB wraps badgerhold for typed storage
type BadgerDB struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewBadgerDB creates a new BadgerDB instance
func NewBadgerDB(logger *common.Logger, config *common.StorageConfig) (*BadgerDB, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = config.Path
	opts.ValueDir = config.Path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("BadgerDB opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
	}, nil
}

// Close closes the database
func (db *BadgerDB) Close() error {
	if db.store != nil {
		return db.store.Close()
	}
	return nil
}

// --- SecurityStore ---

type securityStore struct {
	db     *BadgerDB
	logger *common.Logger
}

func (s *securityStore) Get(ctx context.Context, id string) (*models.Security, error) {
	var security models.Security
	if err := s.db.store.Get(id, &security); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("security '%s' not found", id)
		}
		return nil, fmt.Errorf("get security '%s': %w", id, err)
	}
	return &security, nil
}

func (s *securityStore) GetBySymbol(ctx context.Context, symbol string) (*models.Security, error) {
	var securities []models.Security
	if err := s.db.store.Find(&securities, badgerhold.Where("Symbol").Eq(symbol)); err != nil {
		return nil, fmt.Errorf("find security by symbol '%s': %w", symbol, err)
	}
	if len(securities) == 0 {
		return nil, fmt.Errorf("security with symbol '%s' not found", symbol)
	}
	return &securities[0], nil
}

func (s *securityStore) Save(ctx context.Context, security *models.Security) error {
	if security.ID == "" {
		security.ID = uuid.New().String()
		security.CreatedAt = time.Now()
	}
	security.UpdatedAt = time.Now()

	if err := s.db.store.Upsert(security.ID, security); err != nil {
		return fmt.Errorf("save security '%s': %w", security.ID, err)
	}
	s.logger.Debug().Str("security", security.Symbol).Msg("Security saved")
	return nil
}

func (s *securityStore) Delete(ctx context.Context, id string) error {
	if err := s.db.store.Delete(id, &models.Security{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("delete security '%s': %w", id, err)
	}
	return nil
}

func (s *securityStore) List(ctx context.Context) ([]*models.Security, error) {
	var securities []models.Security
	if err := s.db.store.Find(&securities, nil); err != nil {
		return nil, fmt.Errorf("list securities: %w", err)
	}
	result := make([]*models.Security, len(securities))
	for i := range securities {
		result[i] = &securities[i]
	}
	return result, nil
}

// --- PortfolioStore ---

type portfolioStore struct {
	db     *BadgerDB
	logger *common.Logger
}

func (s *portfolioStore) Get(ctx context.Context, id string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.store.Get(id, &portfolio); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s' not found", id)
		}
		return nil, fmt.Errorf("get portfolio '%s': %w", id, err)
	}
	return &portfolio, nil
}

func (s *portfolioStore) Save(ctx context.Context, portfolio *models.Portfolio) error {
	if portfolio.ID == "" {
		portfolio.ID = uuid.New().String()
		portfolio.CreatedAt = time.Now()
	}
	portfolio.UpdatedAt = time.Now()

	if err := s.db.store.Upsert(portfolio.ID, portfolio); err != nil {
		return fmt.Errorf("save portfolio '%s': %w", portfolio.ID, err)
	}
	s.logger.Debug().Str("portfolio", portfolio.Name).Int("holdings", len(portfolio.Holdings)).Msg("Portfolio saved")
	return nil
}

func (s *portfolioStore) Delete(ctx context.Context, id string) error {
	if err := s.db.store.Delete(id, &models.Portfolio{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("delete portfolio '%s': %w", id, err)
	}
	return nil
}

func (s *portfolioStore) List(ctx context.Context) ([]*models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.db.store.Find(&portfolios, nil); err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	result := make([]*models.Portfolio, len(portfolios))
	for i := range portfolios {
		result[i] = &portfolios[i]
	}
	return result, nil
}

// --- PeriodStore ---

type periodStore struct {
	db     *BadgerDB
	logger *common.Logger
}

func (s *periodStore) Get(ctx context.Context, id string) (*models.FinancialPeriod, error) {
	var period models.FinancialPeriod
	if err := s.db.store.Get(id, &period); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("financial period '%s' not found", id)
		}
		return nil, fmt.Errorf("get financial period '%s': %w", id, err)
	}
	return &period, nil
}

func (s *periodStore) Save(ctx context.Context, period *models.FinancialPeriod) error {
	if period.ID == "" {
		period.ID = uuid.New().String()
	}
	period.UpdatedAt = time.Now()

	if err := s.db.store.Upsert(period.ID, period); err != nil {
		return fmt.Errorf("save financial period '%s': %w", period.ID, err)
	}
	return nil
}

func (s *periodStore) Delete(ctx context.Context, id string) error {
	if err := s.db.store.Delete(id, &models.FinancialPeriod{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("delete financial period '%s': %w", id, err)
	}
	return nil
}

func (s *periodStore) FindBySecurity(ctx context.Context, securityID, periodType string) ([]*models.FinancialPeriod, error) {
	var periods []models.FinancialPeriod
	query := badgerhold.Where("SecurityID").Eq(securityID).Index("SecurityID").
		And("PeriodType").Eq(periodType)
	if err := s.db.store.Find(&periods, query); err != nil {
		return nil, fmt.Errorf("find periods for security '%s': %w", securityID, err)
	}
	result := make([]*models.FinancialPeriod, len(periods))
	for i := range periods {
		result[i] = &periods[i]
	}
	return result, nil
}

// --- PromptStore ---

type promptStore struct {
	db     *BadgerDB
	logger *common.Logger
}

func (s *promptStore) Get(ctx context.Context, id string) (*models.PromptTemplate, error) {
	var template models.PromptTemplate
	if err := s.db.store.Get(id, &template); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("prompt template '%s' not found", id)
		}
		return nil, fmt.Errorf("get prompt template '%s': %w", id, err)
	}
	return &template, nil
}

func (s *promptStore) Save(ctx context.Context, template *models.PromptTemplate) error {
	if template.ID == "" {
		template.ID = uuid.New().String()
		template.CreatedAt = time.Now()
	}
	template.UpdatedAt = time.Now()

	if err := s.db.store.Upsert(template.ID, template); err != nil {
		return fmt.Errorf("save prompt template '%s': %w", template.ID, err)
	}
	return nil
}

func (s *promptStore) Delete(ctx context.Context, id string) error {
	if err := s.db.store.Delete(id, &models.PromptTemplate{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("delete prompt template '%s': %w", id, err)
	}
	return nil
}

func (s *promptStore) List(ctx context.Context) ([]*models.PromptTemplate, error) {
	var templates []models.PromptTemplate
	if err := s.db.store.Find(&templates, nil); err != nil {
		return nil, fmt.Errorf("list prompt templates: %w", err)
	}
	result := make([]*models.PromptTemplate, len(templates))
	for i := range templates {
		result[i] = &templates[i]
	}
	return result, nil
}

// Interface checks
var (
	_ interfaces.SecurityStore  = (*securityStore)(nil)
	_ interfaces.PortfolioStore = (*portfolioStore)(nil)
	_ interfaces.PeriodStore    = (*periodStore)(nil)
	_ interfaces.PromptStore    = (*promptStore)(nil)
)
