// Package docxtest builds minimal DOCX packages for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// documentHeader opens a minimal WordprocessingML body around the given runs.
const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `</w:body></w:document>`

// Run wraps text in a single <w:r><w:t> run.
func Run(text string) string {
	return `<w:r><w:t>` + text + `</w:t></w:r>`
}

// Paragraph wraps runs in a <w:p> element.
func Paragraph(runs ...string) string {
	return `<w:p>` + strings.Join(runs, "") + `</w:p>`
}

// Document builds a complete document.xml body from paragraphs.
func Document(paragraphs ...string) string {
	return documentHeader + strings.Join(paragraphs, "") + documentFooter
}

// Package zips a document.xml (plus the fixed boilerplate entries every DOCX
// carries) into an in-memory package.
func Package(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	entries := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels":       `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
		"word/document.xml": documentXML,
	}
	for name, content := range entries {
		w, err := writer.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close package: %v", err)
	}
	return buf.Bytes()
}

// WriteTemplate writes a packaged template with the given placeholders, one
// per paragraph, into dir and returns its path.
func WriteTemplate(t *testing.T, dir string, placeholders ...string) string {
	t.Helper()

	paragraphs := make([]string, len(placeholders))
	for i, name := range placeholders {
		paragraphs[i] = Paragraph(Run(fmt.Sprintf("{{%s}}", name)))
	}

	path := filepath.Join(dir, "template.docx")
	if err := os.WriteFile(path, Package(t, Document(paragraphs...)), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	return path
}

// ExtractDocument unzips a rendered package and returns its document.xml.
func ExtractDocument(t *testing.T, data []byte) string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip archive: %v", err)
	}
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatal("output package has no word/document.xml")
	return ""
}
