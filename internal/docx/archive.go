package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
)

// documentEntry is the zip entry holding the document body XML. The healer
// and renderer only ever rewrite this entry; the rest of the archive passes
// through untouched.
const documentEntry = "word/document.xml"

// Archive is an in-memory copy of the DOCX template package. Entry order is
// preserved so the rebuilt archive round-trips cleanly.
type Archive struct {
	entries []entry
}

type entry struct {
	name string
	data []byte
}

// Load reads the template file at path into an Archive. It never partially
// loads: either every entry is in memory or an error is returned before any
// further pipeline stage runs.
func Load(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, &ArchiveError{Message: "failed to stat template", Cause: err}
	}
	if info.Size() == 0 {
		return nil, &TemplateEmptyError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArchiveError{Message: "failed to read template", Cause: err}
	}

	return FromBytes(data)
}

// FromBytes parses an in-memory DOCX package into an Archive.
func FromBytes(data []byte) (*Archive, error) {
	if len(data) == 0 {
		return nil, &ArchiveError{Message: "template data is empty"}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Message: "template is not a valid zip archive", Cause: err}
	}

	archive := &Archive{entries: make([]entry, 0, len(reader.File))}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &ArchiveError{Message: "failed to open archive entry " + f.Name, Cause: err}
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, &ArchiveError{Message: "failed to read archive entry " + f.Name, Cause: err}
		}
		archive.entries = append(archive.entries, entry{name: f.Name, data: content})
	}

	if _, err := archive.Document(); err != nil {
		return nil, err
	}
	return archive, nil
}

// Document returns the document body XML as a string.
func (a *Archive) Document() (string, error) {
	for _, e := range a.entries {
		if e.name == documentEntry {
			return string(e.data), nil
		}
	}
	return "", &ArchiveError{Message: "archive has no " + documentEntry + " entry"}
}

// SetDocument replaces the document body XML in place. The archive's
// directory structure is never modified.
func (a *Archive) SetDocument(xml string) {
	for i := range a.entries {
		if a.entries[i].name == documentEntry {
			a.entries[i].data = []byte(xml)
			return
		}
	}
}

// Clone returns a deep copy of the archive. The pipeline heals a copy so the
// original stays available if healing turns out not to help.
func (a *Archive) Clone() *Archive {
	clone := &Archive{entries: make([]entry, len(a.entries))}
	for i, e := range a.entries {
		data := make([]byte, len(e.data))
		copy(data, e.data)
		clone.entries[i] = entry{name: e.name, data: data}
	}
	return clone
}

// Bytes rebuilds the archive as a compressed DOCX package. Compression
// failures are fatal.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, e := range a.entries {
		w, err := writer.Create(e.name)
		if err != nil {
			return nil, &RenderError{Message: "failed to create archive entry " + e.name, Cause: err}
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, &RenderError{Message: "failed to write archive entry " + e.name, Cause: err}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finalize archive", Cause: err}
	}
	return buf.Bytes(), nil
}
