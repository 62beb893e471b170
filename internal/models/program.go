package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a training or outreach program with participant registration.
type Program struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	TitleNe              string     `json:"title_ne,omitempty"`
	Description          string     `json:"description,omitempty"`
	DescriptionNe        string     `json:"description_ne,omitempty"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	Location             string     `json:"location,omitempty"`
	LocationNe           string     `json:"location_ne,omitempty"`
	IsRegistrationOpen   bool       `json:"is_registration_open"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	MaxParticipants      *int       `json:"max_participants,omitempty"`
	ImageURL             string     `json:"image_url,omitempty"`
	CreatedBy            uuid.UUID  `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Info returns the registration snapshot for the program.
func (p *Program) Info() EntityInfo {
	return EntityInfo{
		Type:                 EntityProgram,
		ID:                   p.ID,
		Title:                p.Title,
		TitleNe:              p.TitleNe,
		Date:                 p.StartDate,
		Location:             p.Location,
		LocationNe:           p.LocationNe,
		IsRegistrationOpen:   p.IsRegistrationOpen,
		RegistrationDeadline: p.RegistrationDeadline,
		MaxAttendees:         p.MaxParticipants,
	}
}
