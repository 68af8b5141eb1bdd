package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/phalouvas/cognitive-folio/internal/models"
)

// holdingsMarker delimits a template fragment repeated once per holding.
const holdingsMarker = "***HOLDINGS***"

// Token regexes. Delimiters bind scope: {{...}} to the security, ((...))
// to the portfolio, [[...]] to the holding. File references <<...>> belong
// to the extraction pipeline and are never matched here.
var (
	rePortfolioCompare = regexp.MustCompile(`\(\(\s*periods:compare:([^:()\s]+):([^:()\s]+)\s*\)\)`)
	reSecurityCompare  = regexp.MustCompile(`\{\{\s*periods:compare:([^:{}\s]+):([^:{}\s]+)\s*\}\}`)
	rePortfolioPeriods = regexp.MustCompile(`\(\(\s*periods:([A-Za-z_]+)(?::(\d+))?(?::([A-Za-z]+))?\s*\)\)`)
	reSecurityPeriods  = regexp.MustCompile(`\{\{\s*periods:([A-Za-z_]+)(?::(\d+))?(?::([A-Za-z]+))?\s*\}\}`)
	rePortfolioVar     = regexp.MustCompile(`\(\(([^()]+)\)\)`)
	reSecurityVar      = regexp.MustCompile(`\{\{([^{}]+)\}\}`)
	reHoldingVar       = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
)

// PreparePrompt runs the full expansion pipeline over a template.
//
// Stage order is a correctness requirement: natural-language detection,
// compare macros (portfolio before security), periods macros (portfolio
// before security), then scalar substitution and holdings-section fan-out.
// Later stages never re-interpret text produced by earlier stages.
//
// The contract is "always returns a string": lookup misses and malformed
// macros render as bracketed placeholders, and unexpected failures are
// reported and leave the best-effort partial result.
func (s *Service) PreparePrompt(ctx context.Context, template string, portfolio *models.Portfolio, security *models.Security) (out string) {
	// On an unexpected failure the named return carries the last completed
	// stage's text, so callers still get a usable partial prompt.
	defer func() {
		if r := recover(); r != nil {
			s.reporter.Log("Prompt expansion failed", fmt.Sprintf("%v", r))
		}
	}()

	out = template
	if out == "" {
		return out
	}

	out = s.detectComparisonRequest(out, security != nil)
	out = s.expandCompareMacros(ctx, out, portfolio, security)
	out = s.expandPeriodsMacros(ctx, out, portfolio, security)
	out = s.substituteScalars(ctx, out, portfolio, security)

	return out
}

// expandCompareMacros expands portfolio-scope compare macros, then
// security-scope ones. The security-scope form also accepts relative
// keywords (latest_annual, previous_quarterly, ...).
func (s *Service) expandCompareMacros(ctx context.Context, prompt string, portfolio *models.Portfolio, security *models.Security) string {
	prompt = rePortfolioCompare.ReplaceAllStringFunc(prompt, func(token string) string {
		m := rePortfolioCompare.FindStringSubmatch(token)
		return s.safeExpand(token, func() string {
			return s.expandPortfolioCompare(ctx, portfolio, m[1], m[2])
		})
	})
	prompt = reSecurityCompare.ReplaceAllStringFunc(prompt, func(token string) string {
		m := reSecurityCompare.FindStringSubmatch(token)
		return s.safeExpand(token, func() string {
			if security == nil {
				return placeholderNoSecurity
			}
			return s.expandCompare(ctx, security.ID, "", m[1], m[2])
		})
	})
	return prompt
}

// expandPeriodsMacros expands portfolio-scope periods macros (including the
// "periods:latest" shorthand), then security-scope ones.
func (s *Service) expandPeriodsMacros(ctx context.Context, prompt string, portfolio *models.Portfolio, security *models.Security) string {
	prompt = rePortfolioPeriods.ReplaceAllStringFunc(prompt, func(token string) string {
		m := rePortfolioPeriods.FindStringSubmatch(token)
		return s.safeExpand(token, func() string {
			if strings.EqualFold(m[1], "latest") && m[2] == "" {
				return s.expandPortfolioLatest(ctx, portfolio)
			}
			return s.expandPortfolioPeriods(ctx, portfolio, m[1], m[2], m[3])
		})
	})
	prompt = reSecurityPeriods.ReplaceAllStringFunc(prompt, func(token string) string {
		m := reSecurityPeriods.FindStringSubmatch(token)
		return s.safeExpand(token, func() string {
			return s.expandSecurityPeriods(ctx, security, m[1], m[2], m[3])
		})
	})
	return prompt
}

// substituteScalars replaces remaining scalar tokens and expands holdings
// sections. With a portfolio in scope, ((field)) binds to the portfolio and
// each holdings-section fans out per holding; with only a security in
// scope, {{field}} binds to it and holdings-sections do not apply.
func (s *Service) substituteScalars(ctx context.Context, prompt string, portfolio *models.Portfolio, security *models.Security) string {
	if portfolio != nil {
		prompt = replaceTokens(rePortfolioVar, prompt, portfolio)
		prompt = s.expandHoldingsSections(ctx, prompt, portfolio)
		return prompt
	}
	if security != nil {
		prompt = replaceTokens(reSecurityVar, prompt, security)
	}
	return prompt
}

// expandHoldingsSections duplicates each marker-delimited fragment once per
// holding, substituting {{field}} against that holding's security and
// [[field]] against the holding itself, then splices the copies back in
// holdings order separated by blank lines.
func (s *Service) expandHoldingsSections(ctx context.Context, prompt string, portfolio *models.Portfolio) string {
	for {
		start := strings.Index(prompt, holdingsMarker)
		if start < 0 {
			return prompt
		}
		rest := prompt[start+len(holdingsMarker):]
		end := strings.Index(rest, holdingsMarker)
		if end < 0 {
			// Unbalanced marker: leave the tail untouched.
			return prompt
		}
		section := rest[:end]
		after := rest[end+len(holdingsMarker):]

		expanded := s.expandHoldingsSection(ctx, section, portfolio)

		before := strings.TrimRight(prompt[:start], " \t\n")
		after = strings.TrimLeft(after, " \t\n")
		switch {
		case before == "" && after == "":
			prompt = expanded
		case before == "":
			prompt = expanded + "\n\n" + after
		case after == "":
			prompt = before + "\n\n" + expanded
		default:
			prompt = before + "\n\n" + expanded + "\n\n" + after
		}
	}
}

func (s *Service) expandHoldingsSection(ctx context.Context, section string, portfolio *models.Portfolio) string {
	holdings := portfolio.ListHoldings()
	copies := make([]string, 0, len(holdings))
	for i := range holdings {
		holding := &holdings[i]
		security := s.getSecurity(ctx, holding.SecurityID)

		content := replaceTokens(reSecurityVar, section, security)
		content = replaceTokens(reHoldingVar, content, holding)
		copies = append(copies, strings.TrimSpace(content))
	}
	return strings.Join(copies, "\n\n")
}

// replaceTokens substitutes every token matched by re using the record's
// fields.
func replaceTokens(re *regexp.Regexp, text string, doc models.FieldAccessor) string {
	return re.ReplaceAllStringFunc(text, func(token string) string {
		expr := strings.TrimSpace(token[2 : len(token)-2])
		return resolveVariable(token, expr, doc)
	})
}

// safeExpand runs one macro expansion, converting a panic into a bracketed
// diagnostic so a single bad macro never aborts the pipeline.
func (s *Service) safeExpand(token string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.reporter.Log("Macro expansion error", fmt.Sprintf("%s: %v", token, r))
			out = fmt.Sprintf("[Error expanding %s: %v]", token, r)
		}
	}()
	return fn()
}
