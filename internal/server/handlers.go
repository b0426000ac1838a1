package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-exporter/internal/export"
	"github.com/jonathan/resume-exporter/internal/rendering"
	"github.com/jonathan/resume-exporter/internal/types"
)

var sourceContentTypes = map[export.Target]string{
	export.TargetJSONResume: "application/json",
	export.TargetRenderCV:   "application/yaml",
	export.TargetTypst:      "text/plain; charset=utf-8",
	export.TargetMarkdown:   "text/markdown; charset=utf-8",
}

var formatContentTypes = map[rendering.Format]string{
	rendering.FormatPDF:      "application/pdf",
	rendering.FormatHTML:     "text/html; charset=utf-8",
	rendering.FormatMarkdown: "text/markdown; charset=utf-8",
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"profiles": s.store != nil,
	})
}

// handleThemes lists targets with their themes and formats
func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"targets": export.Catalogue()})
}

// handleTransform returns the document source for a target
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	target, err := export.ParseTarget(r.PathValue("target"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	resume, err := s.decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := s.exporter.Transform(resume, target, r.URL.Query().Get("theme"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", sourceContentTypes[target])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleExport renders an uploaded resume
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	resume, err := s.decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.export(w, r, resume)
}

// export renders resume for the target and query in r and writes the bytes.
func (s *Server) export(w http.ResponseWriter, r *http.Request, resume *types.Resume) {
	req, err := exportRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	requestID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"target":     req.Target,
		"format":     req.Format,
		"theme":      req.Theme,
	})
	log.Info("export requested")

	out, err := s.exporter.Export(r.Context(), resume, req)
	if err != nil {
		log.WithError(err).Warn("export failed")
		w.Header().Set("X-Request-ID", requestID)
		s.writeError(w, err)
		return
	}

	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Type", formatContentTypes[req.Format])
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="resume-%s.%s"`, req.Target, req.Format.Ext()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func exportRequest(r *http.Request) (export.Request, error) {
	target, err := export.ParseTarget(r.PathValue("target"))
	if err != nil {
		return export.Request{}, err
	}

	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = string(rendering.FormatPDF)
	}
	format, err := rendering.ParseFormat(formatName)
	if err != nil {
		return export.Request{}, &ErrValidation{Field: "format", Message: err.Error()}
	}

	return export.Request{Target: target, Format: format, Theme: r.URL.Query().Get("theme")}, nil
}

// decodeResume reads and validates a resume record from the request body.
func (s *Server) decodeResume(w http.ResponseWriter, r *http.Request) (*types.Resume, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrValidation{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", tooLarge.Limit)}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "resume document is required"}
	}

	resume, err := types.DecodeResume(body)
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := resume.Validate(); err != nil {
		return nil, &ErrValidation{Field: "resume", Message: err.Error()}
	}
	return resume, nil
}
