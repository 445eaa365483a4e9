// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"folio/internal/auth"
	"folio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// viewerKey is the context key for the resolved viewer.
	viewerKey contextKey = "viewer"
)

// Viewer describes the request's visitor: their session identity (nil
// when anonymous) and whether they resolved as admin for this request.
type Viewer struct {
	Session *session.Data
	IsAdmin bool
}

// SignedIn reports whether the viewer has a live session.
func (v *Viewer) SignedIn() bool {
	return v != nil && v.Session != nil
}

// LoadViewer retrieves the session from Valkey, resolves the viewer's
// admin status against the user store, and places the result in the
// request context. It never blocks a request: a session lookup or role
// resolution failure downgrades the viewer to anonymous rather than
// erroring the page.
func LoadViewer(sessions *session.Store, resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := &Viewer{}

			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session lookup failed, treating viewer as anonymous",
					"error", err, "path", r.URL.Path)
			}
			if err == nil && data != nil {
				viewer.Session = data
				isAdmin, err := resolver.IsAdmin(r.Context(), data.UID, data.Email)
				// Resolution failure means no admin rights, not an error page.
				if err != nil {
					slog.Warn("admin resolution failed, withholding admin rights",
						"error", err, "uid", data.UID)
				} else {
					viewer.IsAdmin = isAdmin
				}
			}

			ctx := context.WithValue(r.Context(), viewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects unauthenticated users to the login page.
// Must be applied after LoadViewer in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromCtx(r.Context()).SignedIn() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the viewer did not resolve as admin.
// Must be applied after LoadViewer and RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := ViewerFromCtx(r.Context())
		if !v.SignedIn() || !v.IsAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WithViewer returns a context carrying the given viewer.
func WithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromCtx extracts the viewer from the request context. Returns an
// anonymous viewer if the middleware never ran.
func ViewerFromCtx(ctx context.Context) *Viewer {
	v, _ := ctx.Value(viewerKey).(*Viewer)
	if v == nil {
		return &Viewer{}
	}
	return v
}
