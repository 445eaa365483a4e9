// Copyright (c) 2026 Hun Kim <khunny7@gmail.com>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is a blog article. Content is stored as sanitized markup
// (Markdown with embedded HTML passed through the sanitizer at the write
// boundary) and rendered to HTML on display.
//
// Lifecycle: posts are created as drafts. Published is set exactly when a
// save transitions IsDraft to false; once set it is never cleared, even if
// the post is edited again. Deletion is hard — no tombstone.
type BlogPost struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Author        string     `json:"author"`
	AuthorEmail   string     `json:"author_email"`
	AuthorPhoto   *string    `json:"author_photo,omitempty"`
	Tags          []string   `json:"tags"`
	IsPrivate     bool       `json:"is_private"`
	IsDraft       bool       `json:"is_draft"`
	FeaturedImage *string    `json:"featured_image,omitempty"`
	Published     *time.Time `json:"published,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsPublished returns true once the post has left the draft state.
func (p *BlogPost) IsPublished() bool {
	return !p.IsDraft && p.Published != nil
}

// Comment belongs to a blog post. Any signed-in identity may create one;
// deletion authority is role-based, not ownership-based. IsModerated
// always initializes false and is never flipped — moderation in this
// system is delete-only.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"post_id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	AuthorPhoto *string   `json:"author_photo,omitempty"`
	IsModerated bool      `json:"is_moderated"`
	CreatedAt   time.Time `json:"created_at"`
}
