// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

// PromptService expands prompt templates against portfolio and security data.
type PromptService interface {
	// PreparePrompt runs the full expansion pipeline: natural-language
	// comparison detection, compare macros, periods macros, scalar variable
	// substitution, and holdings-section fan-out. It always returns a
	// string; failures surface only as embedded bracketed placeholders.
	PreparePrompt(ctx context.Context, template string, portfolio *models.Portfolio, security *models.Security) string

	// PrepareSecurityPrompt expands a template with only a security in scope.
	PrepareSecurityPrompt(ctx context.Context, template string, securityID string) (string, error)

	// PreparePortfolioPrompt expands a template with a portfolio (and its
	// holdings) in scope.
	PreparePortfolioPrompt(ctx context.Context, template string, portfolioID string) (string, error)
}

// PeriodService looks up financial periods for securities.
type PeriodService interface {
	// Find returns the period matching the exact (type, year, quarter)
	// coordinates, or nil when none exists. Quarter is ignored for annual
	// lookups.
	Find(ctx context.Context, securityID, periodType string, fiscalYear int, fiscalQuarter string) (*models.FinancialPeriod, error)

	// FindLatest returns the most recent period of the given type, ordered
	// by fiscal year descending then fiscal quarter descending, or nil.
	FindLatest(ctx context.Context, securityID, periodType string) (*models.FinancialPeriod, error)

	// FindRecent returns up to limit most recent periods of the given type,
	// newest first.
	FindRecent(ctx context.Context, securityID, periodType string, limit int) ([]*models.FinancialPeriod, error)
}

// PeriodFormatter renders financial periods for inclusion in prompts.
type PeriodFormatter interface {
	// Render formats periods as "markdown" (default) or "json".
	Render(periods []*models.FinancialPeriod, format string) string
}

// ErrorReporter records engine incidents. Implementations must never
// return an error or panic; reporting failures are swallowed.
type ErrorReporter interface {
	Log(title, message string)
}
