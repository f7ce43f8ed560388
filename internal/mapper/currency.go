// Package mapper flattens questionnaire records into the field dictionary
// consumed by the report template.
package mapper

import (
	"strconv"
	"strings"

	"github.com/mhollis/taxdoc/internal/types"
)

// formatCurrency renders a positive amount with thousands separators and
// exactly two decimal places, e.g. 1234.5 -> "1,234.50". Zero, negative, and
// non-finite amounts render as empty string so the template shows a blank
// cell instead of a misleading figure.
func formatCurrency(amount float64) string {
	if !(amount > 0) {
		return ""
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(frac)
	return b.String()
}

// currencyValue coerces a raw questionnaire value and formats it as currency.
// Missing or non-numeric input yields empty string.
func currencyValue(v any, ok bool) string {
	if !ok {
		return ""
	}
	f, numeric := types.CoerceNumber(v)
	if !numeric {
		return ""
	}
	return formatCurrency(f)
}

// formatPercent renders a business-use or similar percentage without
// trailing zeros, e.g. 9 -> "9%", 12.5 -> "12.5%".
func formatPercent(p float64) string {
	if !(p > 0) {
		return ""
	}
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// formatQuantity renders a derived count such as total hours worked.
func formatQuantity(q float64) string {
	if !(q > 0) {
		return ""
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}
