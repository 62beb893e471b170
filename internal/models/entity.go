package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityType distinguishes the two registrable entity kinds.
type EntityType string

const (
	EntityEvent   EntityType = "event"
	EntityProgram EntityType = "program"
)

// CodePrefix returns the registration-code prefix for the entity type.
func (t EntityType) CodePrefix() string {
	if t == EntityProgram {
		return "PRG"
	}
	return "EVT"
}

// EntityInfo is the registration-relevant snapshot of an event or program.
type EntityInfo struct {
	Type                 EntityType `json:"type"`
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	TitleNe              string     `json:"title_ne,omitempty"`
	Date                 time.Time  `json:"date"`
	Location             string     `json:"location,omitempty"`
	LocationNe           string     `json:"location_ne,omitempty"`
	IsRegistrationOpen   bool       `json:"is_registration_open"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	MaxAttendees         *int       `json:"max_attendees,omitempty"`
}
