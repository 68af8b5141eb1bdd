package storage

import (
	"fmt"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
)

// Manager coordinates all storage areas over a single BadgerDB.
type Manager struct {
	db         *BadgerDB
	securities *securityStore
	portfolios *portfolioStore
	periods    *periodStore
	prompts    *promptStore
	logger     *common.Logger
}

// NewManager opens the store and wires up all storage areas.
func NewManager(logger *common.Logger, config *common.StorageConfig) (*Manager, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	return &Manager{
		db:         db,
		securities: &securityStore{db: db, logger: logger},
		portfolios: &portfolioStore{db: db, logger: logger},
		periods:    &periodStore{db: db, logger: logger},
		prompts:    &promptStore{db: db, logger: logger},
		logger:     logger,
	}, nil
}

// Securities returns the security store.
func (m *Manager) Securities() interfaces.SecurityStore {
	return m.securities
}

// Portfolios returns the portfolio store.
func (m *Manager) Portfolios() interfaces.PortfolioStore {
	return m.portfolios
}

// Periods returns the financial period store.
func (m *Manager) Periods() interfaces.PeriodStore {
	return m.periods
}

// Prompts returns the prompt template store.
func (m *Manager) Prompts() interfaces.PromptStore {
	return m.prompts
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
