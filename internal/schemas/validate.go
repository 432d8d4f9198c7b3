// Package schemas validates bulk-import payloads against their JSON
// Schemas before anything reaches the database.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed tuning_request.schema.json
var tuningRequestSchema string

// ValidationError carries the per-field problems of a rejected payload.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation problem at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateImportPayload checks a bulk tuning-request import document
// against the schema. Returns nil when valid, a *ValidationError listing
// every violation otherwise.
func ValidateImportPayload(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(tuningRequestSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}
