// Package docx loads, heals, and renders the DOCX report template.
package docx

import "fmt"

// TemplateNotFoundError indicates the template file does not exist.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template file not found: %s", e.Path)
}

// TemplateEmptyError indicates the template file exists but has zero length.
type TemplateEmptyError struct {
	Path string
}

func (e *TemplateEmptyError) Error() string {
	return fmt.Sprintf("template file is empty: %s", e.Path)
}

// ArchiveError indicates the template could not be read as a zip archive or
// is missing its document body entry.
type ArchiveError struct {
	Message string
	Cause   error
}

func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("archive error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("archive error: %s", e.Message)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the document body XML is structurally unusable for
// rendering: malformed markup or placeholder tokens fragmented across text
// runs. This is the one error class the pipeline recovers from by healing
// the archive and retrying once.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// RenderError indicates field substitution or archive rebuilding failed.
// Render failures are fatal and never retried.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
