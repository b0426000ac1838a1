// Package schemas provides JSON Schema validation for resume records and
// generated documents.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	bundled "github.com/jonathan/resume-exporter/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf("validation against %s failed:\n", ve.Schema))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateFile validates a Go value, as it would marshal to JSON, against a JSON
// Schema file on disk.
func ValidateFile(schemaPath string, doc any) error {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return &SchemaLoadError{Path: absPath, Message: "schema file not found", Cause: err}
	}

	return named(filepath.Base(absPath), validate(absPath,
		gojsonschema.NewReferenceLoader("file://"+absPath),
		gojsonschema.NewGoLoader(doc),
	))
}

// ValidateDocument validates a Go value, as it would marshal to JSON, against
// schema string content.
func ValidateDocument(schemaContent string, doc any) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewGoLoader(doc),
	)
}

// ValidateResume validates a resume record against the bundled resume schema.
func ValidateResume(doc any) error {
	return named(bundled.ResumeFile, ValidateDocument(bundled.Resume, doc))
}

// ValidateJSONResume validates a generated JSON Resume document against the
// bundled JSON Resume schema.
func ValidateJSONResume(doc any) error {
	return named(bundled.JSONResumeFile, ValidateDocument(bundled.JSONResume, doc))
}

func named(schema string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		ve.Schema = schema
	}
	return err
}

func validate(schemaPath string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
