package docx

import "regexp"

// Word processors silently re-segment text runs when a template is edited by
// hand (autocorrect, spell check, tracked changes), leaving placeholder
// tokens fragmented across adjacent runs: "{{" in one run, "CLIENT_NAME}}"
// in the next. The healer merges such fragments back into single tokens so
// the renderer can recognize them.
//
// Only names restricted to uppercase letters and underscores are merged.
// This conservative bound keeps the healer away from unrelated double-brace
// occurrences in document prose.

// runGap matches the markup between two adjacent text runs: closing and
// opening tags, run properties, and whitespace, but never document text.
const runGap = `((?:<[^<>]+>|\s)+)`

var (
	// wholeToken counts intact placeholder tokens for the heal report.
	wholeToken = regexp.MustCompile(`\{\{[A-Z_]+\}\}`)

	// splitOpening: "{{" | <gap> | "NAME}}"
	splitOpening = regexp.MustCompile(`\{\{` + runGap + `([A-Z_]+\}\})`)

	// splitClosing: "{{NAME" | <gap> | "}}"
	splitClosing = regexp.MustCompile(`(\{\{[A-Z_]+)` + runGap + `\}\}`)

	// splitName: "{{PART_A" | <gap> | "PART_B}}"
	splitName = regexp.MustCompile(`(\{\{[A-Z_]+)` + runGap + `([A-Z_]+\}\})`)

	// splitBoth: "{{" | <gap> | "NAME" | <gap> | "}}"
	splitBoth = regexp.MustCompile(`\{\{` + runGap + `([A-Z_]+)` + runGap + `\}\}`)
)

// healPass rewrites one fragmentation pattern. Replacements keep every XML
// tag from the gap, moving only the placeholder text, so the archive stays a
// valid zip of valid XML.
type healPass struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

var healPasses = []healPass{
	{name: "split-opening", pattern: splitOpening, replacement: "{{$2$1"},
	{name: "split-closing", pattern: splitClosing, replacement: "$1}}$2"},
	{name: "split-name", pattern: splitName, replacement: "$1$3$2"},
	{name: "split-both", pattern: splitBoth, replacement: "{{$2}}$1$3"},
}

// HealReport describes what the healer did, for observability only.
type HealReport struct {
	TokensBefore int
	TokensAfter  int
	Repairs      int
}

// Heal repairs fragmented placeholder tokens in the archive's document body.
// Each pass scans globally and replaces every match; a pass with zero
// matches is a no-op, and running Heal on already-healed XML changes
// nothing. Healing cannot fail: worst case it makes zero repairs and leaves
// the archive unchanged.
func Heal(a *Archive) HealReport {
	doc, err := a.Document()
	if err != nil {
		// Load guarantees the entry exists; a missing document heals nothing.
		return HealReport{}
	}

	healed, report := healDocument(doc)
	if report.Repairs > 0 {
		a.SetDocument(healed)
	}
	return report
}

// healDocument applies the four repair passes to the document XML.
func healDocument(doc string) (string, HealReport) {
	report := HealReport{TokensBefore: len(wholeToken.FindAllStringIndex(doc, -1))}

	for _, pass := range healPasses {
		matches := len(pass.pattern.FindAllStringIndex(doc, -1))
		if matches == 0 {
			continue
		}
		doc = pass.pattern.ReplaceAllString(doc, pass.replacement)
		report.Repairs += matches
	}

	report.TokensAfter = len(wholeToken.FindAllStringIndex(doc, -1))
	return doc, report
}
