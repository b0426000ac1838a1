package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-exporter/internal/types"
)

// DefaultProfileName files resumes that carry no candidate name
const DefaultProfileName = "Unknown"

// Profile is a saved resume, keyed by candidate name
type Profile struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Resume    *types.Resume `json:"resume"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProfileSummary is a list row without the resume body
type ProfileSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
