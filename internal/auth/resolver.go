// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/models"
)

// ResolveIsAdmin decides whether a viewer holds admin rights.
//
// A stored role always wins: 'admin' grants, any other stored value
// denies. The bootstrap email list only applies when no role is stored
// at all (role == nil) — a profile explicitly marked 'user' is not
// promoted even if its email is on the list. Email comparison is
// case-insensitive.
func ResolveIsAdmin(role *models.Role, email string, bootstrap map[string]struct{}) bool {
	if role != nil {
		return *role == models.RoleAdmin
	}
	if email == "" {
		return false
	}
	_, ok := bootstrap[strings.ToLower(email)]
	return ok
}

// UserFinder is the slice of the user store the resolver needs.
type UserFinder interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
}

// Resolver answers admin checks against stored profiles, falling back to
// the bootstrap email list for signed-in users with no stored role yet.
type Resolver struct {
	users     UserFinder
	bootstrap map[string]struct{}
}

// NewResolver creates a Resolver backed by the given user store and
// bootstrap admin email set.
func NewResolver(users UserFinder, bootstrap map[string]struct{}) *Resolver {
	if bootstrap == nil {
		bootstrap = map[string]struct{}{}
	}
	return &Resolver{users: users, bootstrap: bootstrap}
}

// IsAdmin resolves admin rights for a signed-in user. A lookup failure
// denies access and surfaces the error; callers must not treat a failed
// check as a grant.
func (r *Resolver) IsAdmin(ctx context.Context, uid, email string) (bool, error) {
	profile, err := r.users.FindByUID(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("resolve admin for %s: %w", uid, err)
	}

	var role *models.Role
	if profile != nil {
		role = profile.Role
		email = profile.Email
	}
	return ResolveIsAdmin(role, email, r.bootstrap), nil
}
