// Package schemas provides JSON Schema validation for questionnaire
// payloads.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mhollis/taxdoc/internal/types"
)

//go:embed questionnaire.schema.json
var questionnaireSchema string

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every schema violation in a payload.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("questionnaire validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateQuestionnaire checks that a submitted record is a flat mapping of
// field names to scalar values. Nested objects and arrays are rejected; the
// mapper only understands scalars.
func ValidateQuestionnaire(record types.QuestionnaireRecord) error {
	schemaLoader := gojsonschema.NewStringLoader(questionnaireSchema)
	documentLoader := gojsonschema.NewGoLoader(map[string]any(record))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
