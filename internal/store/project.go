// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"folio/internal/models"
)

// ProjectStore handles all portfolio project database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, description, tags, year, repo_url, live_url, image, status`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, pq.Array(&p.Tags), &p.Year,
		&p.RepoURL, &p.LiveURL, &p.Image, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all projects, most recent year first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY year DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// FindByID retrieves a project by ID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// Create inserts a new project.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, tags, year, repo_url, live_url, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		p.Title, p.Description, pq.Array(p.Tags), p.Year,
		p.RepoURL, p.LiveURL, p.Image, p.Status,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update saves changes to an existing project. Last write wins.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = $2, description = $3, tags = $4, year = $5,
		    repo_url = $6, live_url = $7, image = $8, status = $9
		WHERE id = $1`,
		p.ID, p.Title, p.Description, pq.Array(p.Tags), p.Year,
		p.RepoURL, p.LiveURL, p.Image, p.Status,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update project: no project with id %s", p.ID)
	}
	return nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
