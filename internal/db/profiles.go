package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-exporter/internal/types"
)

// SaveProfile stores a resume under its candidate name, replacing any profile
// already saved under that name, and returns the profile ID. Resaving keeps the
// original ID and creation time.
func (db *DB) SaveProfile(ctx context.Context, resume *types.Resume) (uuid.UUID, error) {
	if resume == nil {
		return uuid.Nil, fmt.Errorf("resume is nil")
	}
	body, err := json.Marshal(resume)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_profiles (id, name, resume)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET resume = EXCLUDED.resume, updated_at = NOW()
		 RETURNING id`,
		uuid.New(), resume.ProfileName(), body,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

// ListProfiles returns every saved profile, most recently updated first.
func (db *DB) ListProfiles(ctx context.Context) ([]ProfileSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(resume->'contact'->>'title', ''), created_at, updated_at
		 FROM resume_profiles
		 ORDER BY updated_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []ProfileSummary{}
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile loads a profile by ID. Returns nil, nil when it does not exist.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return db.getProfile(ctx, `WHERE id = $1`, id)
}

// GetProfileByName loads a profile by candidate name. Returns nil, nil when it
// does not exist.
func (db *DB) GetProfileByName(ctx context.Context, name string) (*Profile, error) {
	return db.getProfile(ctx, `WHERE name = $1`, name)
}

func (db *DB) getProfile(ctx context.Context, where string, arg any) (*Profile, error) {
	var p Profile
	var body []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, resume, created_at, updated_at FROM resume_profiles `+where,
		arg,
	).Scan(&p.ID, &p.Name, &body, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Resume, err = types.DecodeResume(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored resume %s: %w", p.ID, err)
	}
	return &p, nil
}

// DeleteProfile removes a profile. It reports whether a profile was deleted.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resume_profiles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
