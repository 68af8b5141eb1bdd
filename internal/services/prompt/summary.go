package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// buildPortfolioSummary renders the portfolio-level financial summary block
// that precedes per-holding periods in the "periods:latest" shorthand.
func (s *Service) buildPortfolioSummary(ctx context.Context, portfolio *models.Portfolio) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Portfolio: %s\n\n", portfolio.Name))
	sb.WriteString(fmt.Sprintf("**Currency:** %s\n", portfolio.Currency))
	sb.WriteString(fmt.Sprintf("**Total Value:** %s\n", common.FormatMoney(portfolio.TotalValue)))
	sb.WriteString(fmt.Sprintf("**Cash Balance:** %s\n", common.FormatMoney(portfolio.CashBalance)))
	sb.WriteString(fmt.Sprintf("**Holdings:** %d\n\n", len(portfolio.Holdings)))

	if len(portfolio.Holdings) == 0 {
		return sb.String()
	}

	sb.WriteString("| Symbol | Name | Units | Value | Weight |\n")
	sb.WriteString("|--------|------|-------|-------|--------|\n")
	for _, holding := range portfolio.ListHoldings() {
		symbol := holding.SecurityID
		name := ""
		if security := s.getSecurity(ctx, holding.SecurityID); security != nil {
			symbol = security.DisplaySymbol()
			name = security.Name
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s | %.1f%% |\n",
			symbol, name, holding.Units,
			common.FormatMoney(holding.MarketValue), holding.WeightPct))
	}
	sb.WriteString("\n")

	return sb.String()
}
