package prompt

import (
	"context"
	"fmt"
	"time"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// Service implements PromptService: the template expansion engine.
type Service struct {
	securities interfaces.SecurityStore
	portfolios interfaces.PortfolioStore
	periods    interfaces.PeriodService
	formatter  interfaces.PeriodFormatter
	reporter   interfaces.ErrorReporter
	logger     *common.Logger

	// now is injectable so natural-language quarter defaults are testable.
	now func() time.Time
}

// NewService creates a new prompt expansion service.
func NewService(
	securities interfaces.SecurityStore,
	portfolios interfaces.PortfolioStore,
	periods interfaces.PeriodService,
	formatter interfaces.PeriodFormatter,
	reporter interfaces.ErrorReporter,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if reporter == nil {
		reporter = common.NewReporter(logger)
	}
	return &Service{
		securities: securities,
		portfolios: portfolios,
		periods:    periods,
		formatter:  formatter,
		reporter:   reporter,
		logger:     logger,
		now:        time.Now,
	}
}

// PrepareSecurityPrompt expands a template with only a security in scope.
func (s *Service) PrepareSecurityPrompt(ctx context.Context, template string, securityID string) (string, error) {
	security, err := s.securities.Get(ctx, securityID)
	if err != nil {
		return "", fmt.Errorf("load security %s: %w", securityID, err)
	}
	return s.PreparePrompt(ctx, template, nil, security), nil
}

// PreparePortfolioPrompt expands a template with a portfolio in scope.
func (s *Service) PreparePortfolioPrompt(ctx context.Context, template string, portfolioID string) (string, error) {
	portfolio, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return "", fmt.Errorf("load portfolio %s: %w", portfolioID, err)
	}
	return s.PreparePrompt(ctx, template, portfolio, nil), nil
}

// getSecurity loads a holding's security, returning nil when unavailable.
// A missing security degrades that holding's tokens to empty strings
// instead of failing the whole expansion.
func (s *Service) getSecurity(ctx context.Context, id string) *models.Security {
	if id == "" {
		return nil
	}
	security, err := s.securities.Get(ctx, id)
	if err != nil {
		s.logger.Debug().Str("security", id).Err(err).Msg("Security lookup failed during expansion")
		return nil
	}
	return security
}

// Ensure Service implements PromptService
var _ interfaces.PromptService = (*Service)(nil)
