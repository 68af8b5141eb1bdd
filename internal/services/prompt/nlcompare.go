package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// comparePattern recognizes one natural-language comparison phrasing and
// builds the two canonical period references for it.
type comparePattern struct {
	re    *regexp.Regexp
	build func(m []string, now time.Time) (string, string)
}

const vsWords = `(?:vs\.?|versus|to|against|and|with)`

// comparePatterns is ordered: the first matching pattern wins and only one
// substitution happens per call. More specific phrasings come first.
var comparePatterns = []comparePattern{
	// "compare 2024Q3 vs 2023Q3"
	{
		re: regexp.MustCompile(`(?i)\bcompare\s+(\d{4})\s*Q([1-4])\s+` + vsWords + `\s+(\d{4})\s*Q([1-4])\b`),
		build: func(m []string, _ time.Time) (string, string) {
			return m[1] + "Q" + m[2], m[3] + "Q" + m[4]
		},
	},
	// "compare Q3 vs previous quarter" / "compare 2024 Q3 vs last quarter"
	{
		re: regexp.MustCompile(`(?i)\bcompare\s+(?:(\d{4})\s*)?Q([1-4])\s+` + vsWords + `\s+(?:the\s+)?(?:previous|last)\s+quarter\b`),
		build: func(m []string, now time.Time) (string, string) {
			year := yearOrDefault(m[1], now)
			quarter, _ := strconv.Atoi(m[2])
			prevYear, prevQuarter := previousQuarter(year, quarter)
			return quarterRef(year, quarter), quarterRef(prevYear, prevQuarter)
		},
	},
	// "compare Q3 vs Q2" / "compare Q3 to Q2 2024"
	{
		re: regexp.MustCompile(`(?i)\bcompare\s+Q([1-4])\s+` + vsWords + `\s+Q([1-4])(?:\s+(?:of\s+)?(\d{4}))?\b`),
		build: func(m []string, now time.Time) (string, string) {
			year := yearOrDefault(m[3], now)
			q1, _ := strconv.Atoi(m[1])
			q2, _ := strconv.Atoi(m[2])
			return quarterRef(year, q1), quarterRef(year, q2)
		},
	},
	// "compare 2024 vs previous year" / "compare 2024 to last year"
	{
		re: regexp.MustCompile(`(?i)\bcompare\s+(\d{4})\s+` + vsWords + `\s+(?:the\s+)?(?:previous|last)\s+year\b`),
		build: func(m []string, _ time.Time) (string, string) {
			year, _ := strconv.Atoi(m[1])
			return strconv.Itoa(year), strconv.Itoa(year - 1)
		},
	},
	// "compare 2024 vs 2023"
	{
		re: regexp.MustCompile(`(?i)\bcompare\s+(\d{4})\s+` + vsWords + `\s+(\d{4})\b`),
		build: func(m []string, _ time.Time) (string, string) {
			return m[1], m[2]
		},
	},
}

// detectComparisonRequest scans for natural-language comparison phrases and
// rewrites the first match in-place to canonical compare-macro syntax:
// {{periods:compare:P1:P2}} when a security is in scope, else the
// portfolio-scope ((...)) form. Processing stops after one substitution.
func (s *Service) detectComparisonRequest(prompt string, securityInScope bool) string {
	if prompt == "" {
		return prompt
	}
	now := s.now()
	for _, p := range comparePatterns {
		loc := p.re.FindStringSubmatchIndex(prompt)
		if loc == nil {
			continue
		}
		m := submatches(prompt, loc)
		ref1, ref2 := p.build(m, now)
		if ref1 == "" || ref2 == "" {
			continue
		}
		var macro string
		if securityInScope {
			macro = fmt.Sprintf("{{periods:compare:%s:%s}}", ref1, ref2)
		} else {
			macro = fmt.Sprintf("((periods:compare:%s:%s))", ref1, ref2)
		}
		return prompt[:loc[0]] + macro + prompt[loc[1]:]
	}
	return prompt
}

func submatches(s string, loc []int) []string {
	m := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m = append(m, "")
		} else {
			m = append(m, s[loc[i]:loc[i+1]])
		}
	}
	return m
}

func yearOrDefault(s string, now time.Time) int {
	if s == "" {
		return now.Year()
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return now.Year()
	}
	return year
}

func quarterRef(year, quarter int) string {
	return fmt.Sprintf("%dQ%d", year, quarter)
}
