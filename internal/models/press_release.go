package models

import (
	"time"

	"github.com/google/uuid"
)

// PressRelease is an official association statement.
type PressRelease struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	TitleNe       string     `json:"title_ne,omitempty"`
	Body          string     `json:"body,omitempty"`
	BodyNe        string     `json:"body_ne,omitempty"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	ReleasedOn    *time.Time `json:"released_on,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
