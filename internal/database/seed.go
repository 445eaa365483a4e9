package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// Seed populates the database with initial development data: a couple of
// portfolio projects and one published demo post, so the public pages have
// something to render. It is a no-op when content already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return fmt.Errorf("seed check projects: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	projects := []struct {
		title, desc string
		tags        []string
		year        int
		status      string
	}{
		{"Folio", "This site: a portfolio and blog server.", []string{"go", "postgres"}, 2026, "active"},
		{"Pixel Garden", "A generative-art playground for slow mornings.", []string{"art", "canvas"}, 2025, "archived"},
	}
	for _, p := range projects {
		if _, err := db.Exec(`
			INSERT INTO projects (title, description, tags, year, status)
			VALUES ($1, $2, $3, $4, $5)
		`, p.title, p.desc, pq.Array(p.tags), p.year, p.status); err != nil {
			return fmt.Errorf("seed insert project: %w", err)
		}
	}

	_, err := db.Exec(`
		INSERT INTO blog_posts (title, slug, content, author, author_email, tags, is_draft, published)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
	`,
		"Hello, world",
		"hello-world",
		"Welcome to the blog. This demo post exists so the index page has something to show in development.",
		"Demo Author",
		"demo@folio.local",
		pq.Array([]string{"meta"}),
	)
	if err != nil {
		return fmt.Errorf("seed insert demo post: %w", err)
	}

	slog.Info("database seeded with demo projects and post")
	return nil
}
