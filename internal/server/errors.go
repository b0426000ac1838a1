// Package server provides the HTTP REST API for the resume exporter.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-exporter/internal/export"
	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/transform"
)

// ErrNoDatabase is returned by profile endpoints when no database is configured
var ErrNoDatabase = errors.New("profile storage is not configured")

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var notFound *ErrNotFound

	switch {
	case errors.As(err, &validation),
		errors.Is(err, export.ErrUnsupportedTarget),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, transform.ErrUnsupportedTheme):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoDatabase), errors.Is(err, rendering.ErrToolMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, rendering.ErrRenderFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
