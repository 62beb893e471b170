package models

import (
	"time"

	"github.com/google/uuid"
)

// CommitteeMember is a listed member of the executive committee.
type CommitteeMember struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	FullNameNe    string    `json:"full_name_ne,omitempty"`
	Designation   string    `json:"designation,omitempty"`
	DesignationNe string    `json:"designation_ne,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
