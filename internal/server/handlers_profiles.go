package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-exporter/internal/db"
)

// handleListProfiles lists saved profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrNoDatabase)
		return
	}

	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"profiles": profiles, "count": len(profiles)})
}

// handleSaveProfile saves the uploaded resume under its candidate name
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrNoDatabase)
		return
	}

	resume, err := s.decodeResume(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.store.SaveProfile(r.Context(), resume)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String(), "name": resume.ProfileName()})
}

// handleGetProfile returns one profile with its resume
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleDeleteProfile removes one profile
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, ErrNoDatabase)
		return
	}
	id, err := profileID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	deleted, err := s.store.DeleteProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "profile", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportProfile renders a saved profile
func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.export(w, r, profile.Resume)
}

func (s *Server) loadProfile(r *http.Request) (*db.Profile, error) {
	if s.store == nil {
		return nil, ErrNoDatabase
	}
	id, err := profileID(r)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &ErrNotFound{Resource: "profile", ID: id.String()}
	}
	return profile, nil
}

func profileID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid UUID format"}
	}
	return id, nil
}
