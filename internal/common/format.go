package common

import (
	"fmt"
	"strconv"
)

// FormatMoney formats a value as a dollar amount with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatSignedMoney formats a dollar amount with an explicit sign.
func FormatSignedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

// FormatSignedPct formats a percentage with an explicit sign.
func FormatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatPct formats a percentage with two decimals.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatFloat renders a float without trailing zeros ("12.5", "100").
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
