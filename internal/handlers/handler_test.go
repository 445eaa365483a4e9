// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"folio/internal/cache"
	"folio/internal/database"
	"folio/internal/metrics"
	"folio/internal/middleware"
	"folio/internal/render"
	"folio/internal/session"
	"folio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	Posts     *store.PostStore
	Comments  *store.CommentStore
	Users     *store.UserStore
	Projects  *store.ProjectStore
	PageCache *cache.PageCache
	Collector *metrics.Collector
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk)
	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)
	users := store.NewUserStore(db)
	projects := store.NewProjectStore(db)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)
	collector := metrics.NewCollector(prometheus.NewRegistry())

	admin := NewAdmin(renderer, posts, comments, users, projects, nil, pageCache, collector, "Folio")
	auth := NewAuth(nil, sessions, users, collector)
	public := NewPublic(renderer, posts, comments, projects, pageCache, collector, "Folio")

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  sessions,
		Posts:     posts,
		Comments:  comments,
		Users:     users,
		Projects:  projects,
		PageCache: pageCache,
		Collector: collector,
		Admin:     admin,
		Auth:      auth,
		Public:    public,
	}
}

// testViewer builds a signed-in viewer for request contexts.
func testViewer(uid, email string, admin bool) *middleware.Viewer {
	return &middleware.Viewer{
		Session: &session.Data{
			UID:         uid,
			Email:       email,
			DisplayName: "Test User",
		},
		IsAdmin: admin,
	}
}

// withViewer attaches a viewer to a request.
func withViewer(r *http.Request, v *middleware.Viewer) *http.Request {
	return r.WithContext(middleware.WithViewer(r.Context(), v))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	return withChiURLParams(r, map[string]string{key: value})
}

// withChiURLParams adds multiple chi URL parameters to a request.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// cleanPosts removes test posts by slug. Comments cascade with their post.
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM blog_posts WHERE slug = $1", s)
	}
}

// cleanUsers removes test users by uid.
func cleanUsers(t *testing.T, db *sql.DB, uids ...string) {
	t.Helper()
	for _, u := range uids {
		db.Exec("DELETE FROM users WHERE uid = $1", u)
	}
}
