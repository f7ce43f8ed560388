package docx

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
)

// placeholder matches a complete "{{NAME}}" token. Template authors use
// names with spaces, so anything short of a brace is accepted here; the
// healer's stricter [A-Z_]+ bound applies only to merging fragments.
var placeholder = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// textRun matches one <w:t> text node in the document body.
var textRun = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// Prepare validates the archive's document body for rendering and returns
// the placeholder vocabulary it contains. It fails with *ParseError when the
// XML is malformed or a placeholder token is fragmented across text runs;
// the caller may heal the archive and retry exactly once. Prepare never
// modifies the archive.
func Prepare(a *Archive) ([]string, error) {
	doc, err := a.Document()
	if err != nil {
		return nil, err
	}

	if err := checkWellFormed(doc); err != nil {
		return nil, &ParseError{Message: "document body is not well-formed XML", Cause: err}
	}

	if err := checkFragmentation(doc); err != nil {
		return nil, err
	}

	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(doc, -1) {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// checkWellFormed walks the XML token stream to its end.
func checkWellFormed(doc string) error {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// checkFragmentation reports a *ParseError when any text run holds an
// unbalanced placeholder delimiter, which means a token was split across
// runs by prior manual editing of the template.
func checkFragmentation(doc string) error {
	for _, m := range textRun.FindAllStringSubmatch(doc, -1) {
		text := m[1]
		if strings.Count(text, "{{") != strings.Count(text, "}}") {
			return &ParseError{Message: "placeholder token split across text runs"}
		}
	}
	return nil
}

// Render substitutes every recognized placeholder with its field dictionary
// entry and rebuilds the archive as a compressed DOCX buffer. A placeholder
// with no dictionary entry resolves to empty string, never an error: the
// generated document must always be completable even with sparse input.
func Render(a *Archive, fields map[string]string) ([]byte, error) {
	doc, err := a.Document()
	if err != nil {
		return nil, err
	}

	rendered := placeholder.ReplaceAllStringFunc(doc, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		return escapeXML(fields[name])
	})

	out := a.Clone()
	out.SetDocument(rendered)
	return out.Bytes()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML keeps substituted values from breaking the document markup.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
