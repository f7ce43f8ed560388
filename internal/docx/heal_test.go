package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/taxdoc/internal/docx/docxtest"
)

func TestHealDocument_SplitOpening(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(
		docxtest.Run("{{"),
		docxtest.Run("CLIENT_NAME}}"),
	))

	healed, report := healDocument(doc)

	assert.Contains(t, healed, "{{CLIENT_NAME}}")
	assert.Equal(t, 0, report.TokensBefore)
	assert.Equal(t, 1, report.TokensAfter)
	assert.Equal(t, 1, report.Repairs)
}

func TestHealDocument_SplitClosing(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(
		docxtest.Run("{{CLIENT_NAME"),
		docxtest.Run("}}"),
	))

	healed, report := healDocument(doc)

	assert.Contains(t, healed, "{{CLIENT_NAME}}")
	assert.Equal(t, 1, report.Repairs)
}

func TestHealDocument_SplitName(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(
		docxtest.Run("{{MORTGAGE_"),
		docxtest.Run("INTEREST}}"),
	))

	healed, report := healDocument(doc)

	assert.Contains(t, healed, "{{MORTGAGE_INTEREST}}")
	assert.Equal(t, 1, report.Repairs)
}

func TestHealDocument_FullySplit(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(
		docxtest.Run("{{"),
		docxtest.Run("CLIENT_ABN"),
		docxtest.Run("}}"),
	))

	healed, report := healDocument(doc)

	assert.Contains(t, healed, "{{CLIENT_ABN}}")
	assert.Equal(t, 1, report.Repairs)
	assert.Equal(t, 1, report.TokensAfter)
}

func TestHealDocument_MultipleTokens(t *testing.T) {
	doc := docxtest.Document(
		docxtest.Paragraph(docxtest.Run("{{"), docxtest.Run("CLIENT_NAME}}")),
		docxtest.Paragraph(docxtest.Run("{{RENT"), docxtest.Run("}}")),
		docxtest.Paragraph(docxtest.Run("{{INTACT_FIELD}}")),
	)

	healed, report := healDocument(doc)

	assert.Contains(t, healed, "{{CLIENT_NAME}}")
	assert.Contains(t, healed, "{{RENT}}")
	assert.Contains(t, healed, "{{INTACT_FIELD}}")
	assert.Equal(t, 1, report.TokensBefore)
	assert.Equal(t, 3, report.TokensAfter)
	assert.Equal(t, 2, report.Repairs)
}

func TestHealDocument_Idempotent(t *testing.T) {
	doc := docxtest.Document(
		docxtest.Paragraph(docxtest.Run("{{"), docxtest.Run("CLIENT_NAME}}")),
		docxtest.Paragraph(docxtest.Run("{{"), docxtest.Run("CLIENT_ABN"), docxtest.Run("}}")),
	)

	once, firstReport := healDocument(doc)
	twice, secondReport := healDocument(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, firstReport.Repairs)
	assert.Equal(t, 0, secondReport.Repairs)
}

func TestHealDocument_NoMatchesUnchanged(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}} plain text")))

	healed, report := healDocument(doc)

	assert.Equal(t, doc, healed)
	assert.Equal(t, 0, report.Repairs)
	assert.Equal(t, report.TokensBefore, report.TokensAfter)
}

func TestHealDocument_IgnoresNonPlaceholderBraces(t *testing.T) {
	// Lowercase, digits, and punctuation in the name position must not be
	// merged across runs.
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "lowercase name",
			doc: docxtest.Document(docxtest.Paragraph(
				docxtest.Run("{{"),
				docxtest.Run("client_name}}"),
			)),
		},
		{
			name: "digits in name",
			doc: docxtest.Document(docxtest.Paragraph(
				docxtest.Run("{{FIELD1"),
				docxtest.Run("}}"),
			)),
		},
		{
			name: "literal braces in prose",
			doc: docxtest.Document(docxtest.Paragraph(
				docxtest.Run("use {{"),
				docxtest.Run("your judgement}} here"),
			)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healed, report := healDocument(tt.doc)
			assert.Equal(t, tt.doc, healed)
			assert.Equal(t, 0, report.Repairs)
		})
	}
}

func TestHeal_RewritesArchiveInPlace(t *testing.T) {
	doc := docxtest.Document(docxtest.Paragraph(
		docxtest.Run("{{"),
		docxtest.Run("CLIENT_NAME}}"),
	))
	archive, err := FromBytes(docxtest.Package(t, doc))
	require.NoError(t, err)

	report := Heal(archive)
	assert.Equal(t, 1, report.Repairs)

	healed, err := archive.Document()
	require.NoError(t, err)
	assert.Contains(t, healed, "{{CLIENT_NAME}}")

	// Still a valid archive after the in-place rewrite.
	rebuilt, err := archive.Bytes()
	require.NoError(t, err)
	assert.Contains(t, docxtest.ExtractDocument(t, rebuilt), "{{CLIENT_NAME}}")
}
