package mapper

import (
	"strings"
	"time"

	"github.com/mhollis/taxdoc/internal/types"
)

// FieldDictionary is the flat mapping from template placeholder name to a
// display-ready string. Keys are case- and punctuation-sensitive and must
// match the template's placeholder vocabulary exactly.
type FieldDictionary map[string]string

// Map merges a quick questionnaire and an optional strategy-selector
// questionnaire into the field dictionary consumed by the report template.
// The second record wins on key collision. The mapping is pure: identical
// input (including asOf) always produces identical output, and an empty
// record resolves every field to empty string.
func Map(quick, strategy types.QuestionnaireRecord, asOf time.Time) FieldDictionary {
	record := types.Merge(quick, strategy)
	fields := make(FieldDictionary, 2*len(record)+len(textFields)+2*len(expenseFields)+8)

	// Pass through every input field under its original key and an
	// upper-cased key, so unanticipated template placeholders still resolve
	// when a same-named source field exists. Explicit mappings below
	// overwrite these, so a case-folded collision never shadows a mapped
	// field.
	for key := range record {
		value := record.String(key)
		fields[key] = value
		fields[strings.ToUpper(key)] = value
	}

	for _, f := range textFields {
		fields[f.Name] = record.String(f.Aliases...)
	}
	for _, f := range areaFields {
		fields[f.Name] = record.String(f.Aliases...)
	}

	fields["REPORT_DATE"] = asOf.Format("2 January 2006")
	fields["FINANCIAL_YEAR"] = financialYear(asOf)

	bup, hasBUP := record.Number(bupAliases...)
	fields["BUP_PERCENTAGE"] = ""
	if hasBUP {
		fields["BUP_PERCENTAGE"] = formatPercent(bup)
	}

	hours, hasHours := record.Number(hoursPerWeekAliases...)
	weeks, hasWeeks := record.Number(weeksPerYearAliases...)
	fields["HOURS_PER_WEEK"] = ""
	fields["WEEKS_PER_YEAR"] = ""
	fields["TOTAL_HOURS_WORKED"] = ""
	if hasHours {
		fields["HOURS_PER_WEEK"] = formatQuantity(hours)
	}
	if hasWeeks {
		fields["WEEKS_PER_YEAR"] = formatQuantity(weeks)
	}
	if hasHours && hasWeeks {
		fields["TOTAL_HOURS_WORKED"] = formatQuantity(hours * weeks)
	}

	for _, f := range expenseFields {
		raw, ok := record.Lookup(f.Aliases...)
		fields[f.Name] = currencyValue(raw, ok)

		if !f.Deductible {
			continue
		}
		// A deduction without a business-use percentage would be
		// misleadingly precise, so it stays empty rather than zero.
		fields[f.Name+"_DEDUCTIBLE"] = ""
		if ok && hasBUP {
			if amount, numeric := types.CoerceNumber(raw); numeric {
				fields[f.Name+"_DEDUCTIBLE"] = formatCurrency(amount * bup / 100)
			}
		}
	}

	return fields
}

// financialYear renders the Australian financial year containing asOf,
// e.g. "2025/26" for any date from 1 July 2025 through 30 June 2026.
func financialYear(asOf time.Time) string {
	start := asOf.Year()
	if asOf.Month() < time.July {
		start--
	}
	return time.Date(start, time.July, 1, 0, 0, 0, 0, time.UTC).Format("2006") +
		"/" + time.Date(start+1, time.July, 1, 0, 0, 0, 0, time.UTC).Format("06")
}
