// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"folio/internal/models"
)

// PostStore handles all blog post database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, content, author, author_email, author_photo,
	       tags, is_private, is_draft, featured_image, published, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Author, &p.AuthorEmail, &p.AuthorPhoto,
		pq.Array(&p.Tags), &p.IsPrivate, &p.IsDraft, &p.FeaturedImage,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListAll returns every post, drafts included, newest first. This is the
// admin listing — the public views go through the visibility filter on a
// published-only query instead.
func (s *PostStore) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM blog_posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPublished returns all non-draft posts ordered by published date
// descending. Private posts are included — per-viewer filtering is the
// visibility package's job, applied at the call site.
func (s *PostStore) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM blog_posts
		WHERE is_draft = FALSE
		ORDER BY published DESC NULLS LAST
	`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug, drafts included — the handler
// decides whether the viewer may see it. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID.
// A post saved directly as non-draft gets its published timestamp now;
// otherwise published stays unset until the draft flag is cleared.
func (s *PostStore) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	if !p.IsDraft && p.Published == nil {
		now := time.Now()
		p.Published = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, content, author, author_email, author_photo,
		                        tags, is_private, is_draft, featured_image, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Author, p.AuthorEmail, p.AuthorPhoto,
		pq.Array(p.Tags), p.IsPrivate, p.IsDraft, p.FeaturedImage, p.Published,
	)

	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update modifies an existing post. The published timestamp is set exactly
// when a save transitions the post out of draft; once set it survives all
// later edits. Last write wins — there is no version check.
func (s *PostStore) Update(ctx context.Context, p *models.BlogPost) error {
	if !p.IsDraft && p.Published == nil {
		now := time.Now()
		p.Published = &now
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE blog_posts SET
			title = $1, slug = $2, content = $3, tags = $4,
			is_private = $5, is_draft = $6, featured_image = $7,
			published = $8, updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.Content, pq.Array(p.Tags),
		p.IsPrivate, p.IsDraft, p.FeaturedImage, p.Published, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Comments go with it (FK cascade).
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
