// Package types defines the data structures shared between pipeline stages.
package types

import (
	"strconv"
	"strings"
)

// QuestionnaireRecord is an open-ended mapping from field name to scalar value
// (string, number, or boolean) representing one submitted client questionnaire.
// Records are passed by value through the pipeline and never persisted by it.
type QuestionnaireRecord map[string]any

// Merge combines two records shallowly. Fields from the second record win on
// key collision. Either argument may be nil.
func Merge(first, second QuestionnaireRecord) QuestionnaireRecord {
	merged := make(QuestionnaireRecord, len(first)+len(second))
	for k, v := range first {
		merged[k] = v
	}
	for k, v := range second {
		merged[k] = v
	}
	return merged
}

// Lookup returns the first present, non-nil value among the candidate keys.
// Keys are evaluated in order, so callers list the preferred modern name
// before legacy aliases.
func (r QuestionnaireRecord) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first present value among the candidate keys rendered as
// a trimmed string. Booleans render as "Yes"/"No". Missing values return "".
func (r QuestionnaireRecord) String(keys ...string) string {
	v, ok := r.Lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// Number returns the first present value among the candidate keys coerced to
// a float64. Strings are coerced by extracting their numeric substring, so
// "$24,000" and "24000" both parse. Returns false when no key holds a value
// that can be coerced.
func (r QuestionnaireRecord) Number(keys ...string) (float64, bool) {
	v, ok := r.Lookup(keys...)
	if !ok {
		return 0, false
	}
	return CoerceNumber(v)
}

// CoerceNumber converts a scalar questionnaire value to a float64. Numeric
// types convert directly; strings are stripped of currency symbols and
// grouping separators before parsing. Non-numeric input returns false.
func CoerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		cleaned := numericSubstring(t)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// numericSubstring strips everything except digits, the decimal point, and a
// leading minus sign.
func numericSubstring(s string) string {
	var b strings.Builder
	for i, ch := range s {
		switch {
		case ch >= '0' && ch <= '9', ch == '.':
			b.WriteRune(ch)
		case ch == '-' && i == 0:
			b.WriteRune(ch)
		}
	}
	out := b.String()
	if out == "" || out == "." || out == "-" {
		return ""
	}
	return out
}
