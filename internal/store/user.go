// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Folio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Not-found is reported as (nil, nil), never as an error.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"folio/internal/models"
)

// UserStore is the single source of truth for UserProfile records.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `uid, email, display_name, photo_url, role, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := row.Scan(
		&p.UID, &p.Email, &p.DisplayName, &p.PhotoURL, &p.Role,
		&p.CreatedAt, &p.UpdatedAt, &p.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateOrUpdateOnSignIn upserts the profile for an identity. A first
// sign-in creates the row with all three timestamps set server-side;
// later sign-ins refresh only the volatile fields (email, display name,
// photo, last login). The stored role is never written by this path, not
// even on create — a profile with no role keeps the bootstrap-email
// fallback open, and promoting or demoting is an explicit admin action
// through SetRole.
func (s *UserStore) CreateOrUpdateOnSignIn(ctx context.Context, id models.Identity) (*models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (uid, email, display_name, photo_url)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (uid) DO UPDATE SET
			email         = EXCLUDED.email,
			display_name  = EXCLUDED.display_name,
			photo_url     = EXCLUDED.photo_url,
			last_login_at = NOW(),
			updated_at    = NOW()
		RETURNING `+userColumns,
		id.UID, id.Email, id.DisplayName, id.PhotoURL,
	)

	p, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("sign-in upsert user: %w", err)
	}
	return p, nil
}

// FindByUID retrieves a profile by uid. Returns nil if not found.
func (s *UserStore) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)

	p, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by uid: %w", err)
	}
	return p, nil
}

// SetRole changes a profile's stored role. Authorization is enforced at
// the call site, not here — the store trusts its caller.
func (s *UserStore) SetRole(ctx context.Context, uid string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $1, updated_at = NOW() WHERE uid = $2
	`, role, uid)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set role: no profile for uid %s", uid)
	}
	return nil
}

// List returns all profiles. Used only by the admin panel; the dataset is
// assumed small, so there is no pagination.
func (s *UserStore) List(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.UserProfile
	for rows.Next() {
		p, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *p)
	}
	return users, rows.Err()
}
