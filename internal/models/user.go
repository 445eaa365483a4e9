// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated principal returned by the identity
// provider. It is owned by the provider and never persisted as-is; the
// UserStore maps it to a UserProfile on sign-in.
type Identity struct {
	UID         string // provider subject, stable across sign-ins
	Email       string
	DisplayName string
	PhotoURL    string
}

// UserProfile is this system's persisted record for an identity.
// Exactly one row exists per uid. Rows are created on first sign-in and
// refreshed on every subsequent sign-in; they are never deleted.
//
// Role is nil until an admin explicitly assigns one. The distinction
// matters: a nil role leaves the bootstrap-email fallback open, while an
// explicit 'user' closes it. Sign-in never writes the role.
type UserProfile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name"`
	PhotoURL    *string   `json:"photo_url"`
	Role        *Role     `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// IsAdmin returns true if the profile carries the admin role. This is the
// pure-role check; the bootstrap-aware check lives in the auth package.
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role != nil && *p.Role == RoleAdmin
}

// EffectiveRole returns the stored role, or RoleUser when none is set.
// Display-only; authorization goes through the auth package.
func (p UserProfile) EffectiveRole() Role {
	if p.Role == nil {
		return RoleUser
	}
	return *p.Role
}
