package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is an association event open for public registration.
type Event struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	TitleNe              string     `json:"title_ne,omitempty"`
	Description          string     `json:"description,omitempty"`
	DescriptionNe        string     `json:"description_ne,omitempty"`
	EventDate            time.Time  `json:"event_date"`
	Location             string     `json:"location,omitempty"`
	LocationNe           string     `json:"location_ne,omitempty"`
	IsRegistrationOpen   bool       `json:"is_registration_open"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	MaxAttendees         *int       `json:"max_attendees,omitempty"`
	ImageURL             string     `json:"image_url,omitempty"`
	CreatedBy            uuid.UUID  `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Info returns the registration snapshot for the event.
func (e *Event) Info() EntityInfo {
	return EntityInfo{
		Type:                 EntityEvent,
		ID:                   e.ID,
		Title:                e.Title,
		TitleNe:              e.TitleNe,
		Date:                 e.EventDate,
		Location:             e.Location,
		LocationNe:           e.LocationNe,
		IsRegistrationOpen:   e.IsRegistrationOpen,
		RegistrationDeadline: e.RegistrationDeadline,
		MaxAttendees:         e.MaxAttendees,
	}
}
