package models

import (
	"time"

	"github.com/google/uuid"
)

// Notice is an association announcement, bilingual.
type Notice struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	TitleNe       string     `json:"title_ne,omitempty"`
	Body          string     `json:"body,omitempty"`
	BodyNe        string     `json:"body_ne,omitempty"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
