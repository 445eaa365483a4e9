// Package router sets up all HTTP routes and middleware chains for the
// folio site. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"folio/internal/auth"
	"folio/internal/handlers"
	"folio/internal/metrics"
	"folio/internal/middleware"
	"folio/internal/session"
	"folio/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Store, resolver *auth.Resolver, collector *metrics.Collector, registry *prometheus.Registry, public *handlers.Public, authH *handlers.Auth, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Debug)
	r.Use(middleware.LoadViewer(sessions, resolver))
	r.Use(middleware.CSRF)

	// Operational endpoints — no auth, no caching.
	r.Get("/healthz", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	// Static assets.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Sign-in flow. The start endpoint is rate limited to keep bots from
	// burning OAuth round trips.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Get("/login", public.Login)
		r.Get("/auth/google", authH.GoogleStart)
		r.Get("/auth/callback", authH.GoogleCallback)
	})
	r.Post("/logout", authH.Logout)

	// Public site.
	r.Get("/", public.Home)
	r.Get("/projects", public.Projects)
	r.Get("/blog", public.Blog)
	r.Get("/blog/{slug}", public.Post)

	// Comments: posting needs a session, deleting needs admin.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/blog/{slug}/comments", public.CreateComment)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)
		r.Post("/blog/{slug}/comments/{id}/delete", public.DeleteComment)
	})

	// Admin panel — session plus resolved admin role.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Get("/", admin.Dashboard)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.Posts)
			r.Get("/new", admin.NewPost)
			r.Post("/new", admin.CreatePost)
			r.Get("/{id}", admin.EditPost)
			r.Post("/{id}", admin.UpdatePost)
			r.Post("/{id}/delete", admin.DeletePost)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", admin.Comments)
			r.Post("/{id}/delete", admin.DeleteComment)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", admin.Users)
			r.Post("/{uid}/role", admin.SetUserRole)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", admin.Projects)
			r.Get("/new", admin.NewProject)
			r.Post("/new", admin.CreateProject)
			r.Get("/{id}", admin.EditProject)
			r.Post("/{id}", admin.UpdateProject)
			r.Post("/{id}/delete", admin.DeleteProject)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
