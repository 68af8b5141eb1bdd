package interfaces

import (
	"context"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

// StorageManager coordinates all storage areas.
type StorageManager interface {
	Securities() SecurityStore
	Portfolios() PortfolioStore
	Periods() PeriodStore
	Prompts() PromptStore

	Close() error
}

// SecurityStore persists securities.
type SecurityStore interface {
	Get(ctx context.Context, id string) (*models.Security, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Security, error)
	Save(ctx context.Context, security *models.Security) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Security, error)
}

// PortfolioStore persists portfolios with their holdings.
type PortfolioStore interface {
	Get(ctx context.Context, id string) (*models.Portfolio, error)
	Save(ctx context.Context, portfolio *models.Portfolio) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Portfolio, error)
}

// PeriodStore persists financial periods.
type PeriodStore interface {
	Get(ctx context.Context, id string) (*models.FinancialPeriod, error)
	Save(ctx context.Context, period *models.FinancialPeriod) error
	Delete(ctx context.Context, id string) error

	// FindBySecurity returns all periods of the given type for a security,
	// ordered fiscal year descending, fiscal quarter descending, with
	// duplicates ranked by data quality then recency.
	FindBySecurity(ctx context.Context, securityID, periodType string) ([]*models.FinancialPeriod, error)
}

// PromptStore persists prompt templates.
type PromptStore interface {
	Get(ctx context.Context, id string) (*models.PromptTemplate, error)
	Save(ctx context.Context, template *models.PromptTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.PromptTemplate, error)
}
