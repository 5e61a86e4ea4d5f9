package models

import (
	"time"

	"github.com/google/uuid"
)

type Resource struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	GuideText   *string   `json:"guide_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ExternalLink struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	URL         string    `json:"url"`
	GuideText   *string   `json:"guide_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
