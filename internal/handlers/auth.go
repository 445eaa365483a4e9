// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"folio/internal/auth"
	"folio/internal/metrics"
	"folio/internal/session"
	"folio/internal/store"
)

// stateCookieName holds the OAuth state value between the redirect to
// Google and the callback.
const stateCookieName = "folio_oauth_state"

// Auth handles the Google sign-in flow and sign-out.
type Auth struct {
	provider  *auth.GoogleProvider
	sessions  *session.Store
	users     *store.UserStore
	collector *metrics.Collector
}

// NewAuth creates a new Auth handler group.
func NewAuth(provider *auth.GoogleProvider, sessions *session.Store, users *store.UserStore, collector *metrics.Collector) *Auth {
	return &Auth{
		provider:  provider,
		sessions:  sessions,
		users:     users,
		collector: collector,
	}
}

// GoogleStart begins the sign-in flow: it stores a fresh state value in
// a short-lived cookie and redirects to Google's consent screen.
func (a *Auth) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if a.provider == nil {
		http.Error(w, "sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := auth.NewState()
	if err != nil {
		slog.Error("generate oauth state failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, a.provider.AuthCodeURL(state), http.StatusSeeOther)
}

// GoogleCallback finishes the sign-in flow: it validates the state,
// exchanges the code for the user's identity, upserts the profile (the
// stored role is never touched), and opens a session.
func (a *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if a.provider == nil {
		http.Error(w, "sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	// One shot: the state cookie is spent regardless of outcome.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		// User declined on the consent screen.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	identity, err := a.provider.Exchange(ctx, code)
	if err != nil {
		slog.Error("google exchange failed", "error", err)
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	profile, err := a.users.CreateOrUpdateOnSignIn(ctx, *identity)
	if err != nil {
		slog.Error("upsert user on sign-in failed", "error", err, "uid", identity.UID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &session.Data{
		UID:         profile.UID,
		Email:       profile.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	}
	if _, err := a.sessions.Create(ctx, w, data); err != nil {
		slog.Error("create session failed", "error", err, "uid", profile.UID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.collector.RecordSignIn()
	slog.Info("user signed in", "uid", profile.UID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the homepage.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy session failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
