package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-exporter/internal/export"
	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/transform"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "body", Message: "bad"}, http.StatusBadRequest},
		{"unsupported target", fmt.Errorf("%w: docx", export.ErrUnsupportedTarget), http.StatusBadRequest},
		{"unsupported format", fmt.Errorf("%w: html", export.ErrUnsupportedFormat), http.StatusBadRequest},
		{"unsupported theme", fmt.Errorf("%w: fancy", transform.ErrUnsupportedTheme), http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "profile", ID: "x"}, http.StatusNotFound},
		{"no database", ErrNoDatabase, http.StatusServiceUnavailable},
		{"missing tool", &rendering.MissingToolError{Tool: "typst"}, http.StatusServiceUnavailable},
		{"process failure", &rendering.ProcessError{Tool: "typst", ExitCode: 1}, http.StatusBadGateway},
		{"timeout", &rendering.TimeoutError{Tool: "typst"}, http.StatusBadGateway},
		{"output missing", &rendering.OutputMissingError{Tool: "rendercv"}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
