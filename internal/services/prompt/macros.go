package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// Bracketed placeholders embedded in expanded output when a macro cannot
// be satisfied. Expansion never raises; these are the only failure surface.
const (
	placeholderNoSecurity  = "[No security context for periods]"
	placeholderNoPortfolio = "[No portfolio context for periods]"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), formatJSON) {
		return formatJSON
	}
	return formatMarkdown
}

// expandSecurityPeriods renders "periods:<type>:<count>[:<format>]" for the
// security in scope.
func (s *Service) expandSecurityPeriods(ctx context.Context, security *models.Security, typeArg, countArg, formatArg string) string {
	if security == nil {
		return placeholderNoSecurity
	}

	periodType := models.NormalizePeriodType(typeArg)
	if periodType == "" {
		return fmt.Sprintf("[Invalid period type: %s]", typeArg)
	}
	count, err := strconv.Atoi(countArg)
	if err != nil || count < 1 {
		return fmt.Sprintf("[Invalid period count: %s]", countArg)
	}

	periods, err := s.periods.FindRecent(ctx, security.ID, periodType, count)
	if err != nil {
		s.reporter.Log("Period lookup failed", err.Error())
		return fmt.Sprintf("[Error fetching periods: %v]", err)
	}
	if len(periods) == 0 {
		return fmt.Sprintf("[No %s periods found for %s]", strings.ToLower(periodType), security.DisplaySymbol())
	}

	return s.formatter.Render(periods, normalizeFormat(formatArg))
}

// expandPortfolioPeriods renders "periods:<type>:<count>[:<format>]" for
// every holding's security in the portfolio.
func (s *Service) expandPortfolioPeriods(ctx context.Context, portfolio *models.Portfolio, typeArg, countArg, formatArg string) string {
	if portfolio == nil {
		return placeholderNoPortfolio
	}

	var sb strings.Builder
	for _, holding := range portfolio.ListHoldings() {
		security := s.getSecurity(ctx, holding.SecurityID)
		if security == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", security.Name, security.DisplaySymbol()))
		sb.WriteString(s.expandSecurityPeriods(ctx, security, typeArg, countArg, formatArg))
		sb.WriteString("\n\n")
	}
	if sb.Len() == 0 {
		return "[No holdings with financial data]"
	}
	return strings.TrimRight(sb.String(), "\n")
}

// expandPortfolioLatest renders the "periods:latest" shorthand: a portfolio
// financial summary followed by each holding's latest annual period and
// four latest quarterly periods.
func (s *Service) expandPortfolioLatest(ctx context.Context, portfolio *models.Portfolio) string {
	if portfolio == nil {
		return placeholderNoPortfolio
	}

	var sb strings.Builder
	sb.WriteString(s.buildPortfolioSummary(ctx, portfolio))
	sb.WriteString("\n")

	for _, holding := range portfolio.ListHoldings() {
		security := s.getSecurity(ctx, holding.SecurityID)
		if security == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", security.Name, security.DisplaySymbol()))

		annual, err := s.periods.FindRecent(ctx, security.ID, models.PeriodTypeAnnual, 1)
		if err == nil && len(annual) > 0 {
			sb.WriteString(s.formatter.Render(annual, formatMarkdown))
			sb.WriteString("\n")
		}
		quarterly, err := s.periods.FindRecent(ctx, security.ID, models.PeriodTypeQuarterly, 4)
		if err == nil && len(quarterly) > 0 {
			sb.WriteString(s.formatter.Render(quarterly, formatMarkdown))
			sb.WriteString("\n")
		}
		if len(annual) == 0 && len(quarterly) == 0 {
			sb.WriteString(fmt.Sprintf("[No financial periods for %s]\n", security.DisplaySymbol()))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// expandCompare renders "periods:compare:<ref1>:<ref2>" for one security.
// title, when non-empty, becomes a heading above the comparison block.
func (s *Service) expandCompare(ctx context.Context, securityID, title, ref1, ref2 string) string {
	first, second, err := s.resolvePeriodPair(ctx, securityID, ref1, ref2)
	if err != nil {
		return "[" + err.Error() + "]"
	}

	current := s.fetchPeriod(ctx, securityID, first)
	if current == nil {
		return fmt.Sprintf("[No financial data for %s]", first.Label())
	}
	previous := s.fetchPeriod(ctx, securityID, second)
	if previous == nil {
		return fmt.Sprintf("[No financial data for %s]", second.Label())
	}

	return formatComparison(title, current, previous)
}

// expandPortfolioCompare renders a portfolio-scope comparison: an aggregate
// revenue-weighted gross-margin line across holdings where both periods
// exist, followed by per-holding comparison sections.
func (s *Service) expandPortfolioCompare(ctx context.Context, portfolio *models.Portfolio, ref1, ref2 string) string {
	if portfolio == nil {
		return placeholderNoPortfolio
	}

	var pairs []periodPair
	var sections []string
	for _, holding := range portfolio.ListHoldings() {
		security := s.getSecurity(ctx, holding.SecurityID)
		if security == nil {
			continue
		}
		title := fmt.Sprintf("%s (%s)", security.Name, security.DisplaySymbol())
		var pair periodPair
		if first, second, err := s.resolvePeriodPair(ctx, security.ID, ref1, ref2); err == nil {
			pair.current = s.fetchPeriod(ctx, security.ID, first)
			pair.previous = s.fetchPeriod(ctx, security.ID, second)
		}
		pairs = append(pairs, pair)
		if pair.current != nil && pair.previous != nil {
			sections = append(sections, formatComparison(title, pair.current, pair.previous))
		} else {
			sections = append(sections, fmt.Sprintf("### %s\n\n[No comparable data for %s vs %s]\n", title, ref1, ref2))
		}
	}
	if len(sections) == 0 {
		return "[No holdings with financial data]"
	}

	var sb strings.Builder
	if header := aggregateMarginHeader(pairs); header != "" {
		sb.WriteString(header)
		sb.WriteString("\n\n")
	}
	for _, section := range sections {
		sb.WriteString(section)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

type periodPair struct {
	current  *models.FinancialPeriod
	previous *models.FinancialPeriod
}

// aggregateMarginHeader computes the revenue-weighted gross margin across
// holdings where both periods exist. Returns "" when no holding qualifies.
func aggregateMarginHeader(pairs []periodPair) string {
	var curRevenue, curWeighted, prevRevenue, prevWeighted float64
	matched := 0
	for _, p := range pairs {
		if p.current == nil || p.previous == nil {
			continue
		}
		matched++
		curRevenue += p.current.TotalRevenue
		curWeighted += p.current.GrossMargin * p.current.TotalRevenue
		prevRevenue += p.previous.TotalRevenue
		prevWeighted += p.previous.GrossMargin * p.previous.TotalRevenue
	}
	if matched == 0 || curRevenue == 0 || prevRevenue == 0 {
		return ""
	}
	curMargin := curWeighted / curRevenue
	prevMargin := prevWeighted / prevRevenue
	return fmt.Sprintf("**Portfolio gross margin (revenue-weighted): %s vs %s, %s**",
		common.FormatPct(curMargin), common.FormatPct(prevMargin), formatPointsDelta(curMargin-prevMargin))
}

// fetchPeriod loads the metrics for a resolved period coordinate, or nil.
func (s *Service) fetchPeriod(ctx context.Context, securityID string, ref *PeriodRef) *models.FinancialPeriod {
	period, err := s.periods.Find(ctx, securityID, ref.Type, ref.Year, ref.Quarter)
	if err != nil {
		s.reporter.Log("Period fetch failed", err.Error())
		return nil
	}
	return period
}

// formatComparison renders a two-period comparison block: revenue and net
// income with percent change, and the three margin deltas in points.
func formatComparison(title string, current, previous *models.FinancialPeriod) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	}
	sb.WriteString(fmt.Sprintf("**%s vs %s**\n\n", current.Label(), previous.Label()))
	sb.WriteString(fmt.Sprintf("- Revenue: %s (Prev: %s, Change: %s)\n",
		common.FormatMoney(current.TotalRevenue),
		common.FormatMoney(previous.TotalRevenue),
		common.FormatSignedPct(percentChange(current.TotalRevenue, previous.TotalRevenue))))
	sb.WriteString(fmt.Sprintf("- Net Income: %s (Prev: %s, Change: %s)\n",
		common.FormatMoney(current.NetIncome),
		common.FormatMoney(previous.NetIncome),
		common.FormatSignedPct(percentChange(current.NetIncome, previous.NetIncome))))
	sb.WriteString(fmt.Sprintf("- Gross Margin: %s (Prev: %s, %s)\n",
		common.FormatPct(current.GrossMargin),
		common.FormatPct(previous.GrossMargin),
		formatPointsDelta(current.GrossMargin-previous.GrossMargin)))
	sb.WriteString(fmt.Sprintf("- Operating Margin: %s (Prev: %s, %s)\n",
		common.FormatPct(current.OperatingMargin),
		common.FormatPct(previous.OperatingMargin),
		formatPointsDelta(current.OperatingMargin-previous.OperatingMargin)))
	sb.WriteString(fmt.Sprintf("- Net Margin: %s (Prev: %s, %s)\n",
		common.FormatPct(current.NetMargin),
		common.FormatPct(previous.NetMargin),
		formatPointsDelta(current.NetMargin-previous.NetMargin)))
	return sb.String()
}

// percentChange returns (new - old) / old * 100, or 0 when old is zero.
func percentChange(newValue, oldValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}

func formatPointsDelta(delta float64) string {
	return fmt.Sprintf("%+.2fpp", delta)
}
