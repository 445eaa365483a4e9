package models

import "github.com/google/uuid"

// Project is a portfolio entry shown in the gallery. Projects have no
// visibility rules — everything in the portfolio is public.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Year        int       `json:"year"`
	RepoURL     *string   `json:"repo_url,omitempty"`
	LiveURL     *string   `json:"live_url,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Status      *string   `json:"status,omitempty"`
}
