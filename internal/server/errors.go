package server

import (
	"errors"
	"net/http"

	"github.com/mhollis/taxdoc/internal/db"
	"github.com/mhollis/taxdoc/internal/docx"
	"github.com/mhollis/taxdoc/internal/schemas"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error. Every
// fatal pipeline condition maps to 500; malformed requests map to 400.
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		schemaErr  *schemas.ValidationError
		notFound   *docx.TemplateNotFoundError
		emptyTmpl  *docx.TemplateEmptyError
		archiveErr *docx.ArchiveError
		parseErr   *docx.ParseError
		renderErr  *docx.RenderError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrQuestionnaireNotFound):
		return http.StatusNotFound
	case errors.As(err, &notFound), errors.As(err, &emptyTmpl),
		errors.As(err, &archiveErr), errors.As(err, &parseErr),
		errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
