package docx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/taxdoc/internal/docx/docxtest"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.docx"))
	require.Error(t, err)

	var notFound *TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var empty *TemplateEmptyError
	assert.ErrorAs(t, err, &empty)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoad_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var archiveErr *ArchiveError
	assert.ErrorAs(t, err, &archiveErr)
}

func TestLoad_ValidTemplate(t *testing.T) {
	path := docxtest.WriteTemplate(t, t.TempDir(), "CLIENT_NAME")

	archive, err := Load(path)
	require.NoError(t, err)

	doc, err := archive.Document()
	require.NoError(t, err)
	assert.Contains(t, doc, "{{CLIENT_NAME}}")
}

func TestFromBytes_MissingDocumentEntry(t *testing.T) {
	// A zip without word/document.xml is not a usable template.
	data := docxtest.Package(t, docxtest.Document())
	archive, err := FromBytes(data)
	require.NoError(t, err)
	require.NotNil(t, archive)

	archive.entries = archive.entries[:0]
	_, err = archive.Document()
	var archiveErr *ArchiveError
	assert.ErrorAs(t, err, &archiveErr)
}

func TestArchive_RoundTrip(t *testing.T) {
	original := docxtest.Document(docxtest.Paragraph(docxtest.Run("{{CLIENT_NAME}}")))
	archive, err := FromBytes(docxtest.Package(t, original))
	require.NoError(t, err)

	rebuilt, err := archive.Bytes()
	require.NoError(t, err)

	assert.Equal(t, original, docxtest.ExtractDocument(t, rebuilt))
}

func TestArchive_SetDocumentKeepsStructure(t *testing.T) {
	archive, err := FromBytes(docxtest.Package(t, docxtest.Document()))
	require.NoError(t, err)

	replacement := docxtest.Document(docxtest.Paragraph(docxtest.Run("updated")))
	archive.SetDocument(replacement)

	rebuilt, err := archive.Bytes()
	require.NoError(t, err)

	// Still a valid zip with the same entry set, only the body changed.
	assert.Equal(t, replacement, docxtest.ExtractDocument(t, rebuilt))
}

func TestArchive_CloneIsIndependent(t *testing.T) {
	archive, err := FromBytes(docxtest.Package(t, docxtest.Document(docxtest.Paragraph(docxtest.Run("original")))))
	require.NoError(t, err)

	clone := archive.Clone()
	clone.SetDocument(docxtest.Document(docxtest.Paragraph(docxtest.Run("modified"))))

	doc, err := archive.Document()
	require.NoError(t, err)
	assert.Contains(t, doc, "original")
}
