package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/taxdoc/internal/docx/docxtest"
)

func wellFormedArchive(t *testing.T, paragraphs ...string) *Archive {
	t.Helper()
	archive, err := FromBytes(docxtest.Package(t, docxtest.Document(paragraphs...)))
	require.NoError(t, err)
	return archive
}

func TestPrepare_CollectsPlaceholders(t *testing.T) {
	archive := wellFormedArchive(t,
		docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}}")),
		docxtest.Paragraph(docxtest.Run("{{RENT}} and {{RENT_DEDUCTIBLE}}")),
		docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}}")),
	)

	names, err := Prepare(archive)
	require.NoError(t, err)

	assert.Equal(t, []string{"CLIENT_NAME", "RENT", "RENT_DEDUCTIBLE"}, names)
}

func TestPrepare_FragmentedPlaceholderFails(t *testing.T) {
	archive := wellFormedArchive(t, docxtest.Paragraph(
		docxtest.Run("{{"),
		docxtest.Run("CLIENT_NAME}}"),
	))

	_, err := Prepare(archive)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestPrepare_MalformedXMLFails(t *testing.T) {
	archive := wellFormedArchive(t)
	archive.SetDocument(`<w:document><w:body><w:p></w:document>`)

	_, err := Prepare(archive)
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestPrepare_SucceedsAfterHealing(t *testing.T) {
	archive := wellFormedArchive(t, docxtest.Paragraph(
		docxtest.Run("{{"),
		docxtest.Run("CLIENT_NAME}}"),
	))

	_, err := Prepare(archive)
	require.Error(t, err)

	report := Heal(archive)
	assert.Equal(t, 1, report.Repairs)

	names, err := Prepare(archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"CLIENT_NAME"}, names)
}

func TestRender_SubstitutesFields(t *testing.T) {
	archive := wellFormedArchive(t,
		docxtest.Paragraph(docxtest.Run("Prepared for {{CLIENT_NAME}}")),
		docxtest.Paragraph(docxtest.Run("Rent: {{RENT}}")),
	)

	out, err := Render(archive, map[string]string{
		"CLIENT_NAME": "Ada Lovelace",
		"RENT":        "12,000.00",
	})
	require.NoError(t, err)

	doc := docxtest.ExtractDocument(t, out)
	assert.Contains(t, doc, "Prepared for Ada Lovelace")
	assert.Contains(t, doc, "Rent: 12,000.00")
	assert.NotContains(t, doc, "{{")
}

func TestRender_MissingFieldsResolveEmpty(t *testing.T) {
	// Half the template's placeholders have no dictionary entry; rendering
	// must still produce a valid document with those replaced by empty
	// string rather than failing.
	archive := wellFormedArchive(t,
		docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}}")),
		docxtest.Paragraph(docxtest.Run("{{UNMAPPED_FIELD}}")),
		docxtest.Paragraph(docxtest.Run("{{RENT}}")),
		docxtest.Paragraph(docxtest.Run("{{ANOTHER_UNMAPPED}}")),
	)

	out, err := Render(archive, map[string]string{
		"CLIENT_NAME": "Ada Lovelace",
		"RENT":        "12,000.00",
	})
	require.NoError(t, err)

	doc := docxtest.ExtractDocument(t, out)
	assert.Contains(t, doc, "Ada Lovelace")
	assert.NotContains(t, doc, "{{UNMAPPED_FIELD}}")
	assert.NotContains(t, doc, "{{ANOTHER_UNMAPPED}}")
	assert.Contains(t, doc, "<w:t></w:t>")
}

func TestRender_EscapesFieldValues(t *testing.T) {
	archive := wellFormedArchive(t, docxtest.Paragraph(docxtest.Run("{{BUSINESS_NAME}}")))

	out, err := Render(archive, map[string]string{
		"BUSINESS_NAME": `Smith & Sons <Trading> "Pty"`,
	})
	require.NoError(t, err)

	doc := docxtest.ExtractDocument(t, out)
	assert.Contains(t, doc, "Smith &amp; Sons &lt;Trading&gt; &quot;Pty&quot;")
}

func TestRender_PlaceholderNamesWithSpaces(t *testing.T) {
	archive := wellFormedArchive(t, docxtest.Paragraph(docxtest.Run("{{Client Name}}")))

	out, err := Render(archive, map[string]string{"Client Name": "Ada"})
	require.NoError(t, err)

	assert.Contains(t, docxtest.ExtractDocument(t, out), ">Ada<")
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	archive := wellFormedArchive(t, docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}}")))

	_, err := Render(archive, map[string]string{"CLIENT_NAME": "Ada"})
	require.NoError(t, err)

	doc, err := archive.Document()
	require.NoError(t, err)
	assert.Contains(t, doc, "{{CLIENT_NAME}}")
}
