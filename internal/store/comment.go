package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// CommentStore handles all comment database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, content, author, author_email, author_photo, is_moderated, created_at`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(
		&c.ID, &c.PostID, &c.Content, &c.Author, &c.AuthorEmail,
		&c.AuthorPhoto, &c.IsModerated, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new comment. IsModerated always starts false and is
// never flipped afterwards — moderation in this system removes the
// comment outright instead of hiding it.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, content, author, author_email, author_photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		c.PostID, c.Content, c.Author, c.AuthorEmail, c.AuthorPhoto,
	)

	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// ListByPost returns a post's comments oldest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments by post: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListAll returns every comment, newest first. Used by the admin panel.
func (s *CommentStore) ListAll(ctx context.Context) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	return collectComments(rows)
}

func collectComments(rows *sql.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Delete removes a comment by ID. Role-gated at the call site — a comment
// carries no access control of its own.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
