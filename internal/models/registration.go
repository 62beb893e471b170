package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration status values. A registration moves registered -> attended on
// first check-in, or registered -> cancelled administratively. Both are terminal.
const (
	StatusRegistered = "registered"
	StatusAttended   = "attended"
	StatusCancelled  = "cancelled"
)

// Registration is one attendee's registration for an event or program.
// Exactly one of EventID / ProgramID is set. Attendee fields are denormalized
// copies captured at registration time, not live references to a user profile.
type Registration struct {
	ID               uuid.UUID  `json:"id"`
	EventID          *uuid.UUID `json:"event_id,omitempty"`
	ProgramID        *uuid.UUID `json:"program_id,omitempty"`
	FullName         string     `json:"full_name"`
	FullNameNe       string     `json:"full_name_ne,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Organization     string     `json:"organization,omitempty"`
	Designation      string     `json:"designation,omitempty"`
	RegistrationCode string     `json:"registration_code"`
	QRData           string     `json:"qr_data"`
	Status           string     `json:"status"`
	IsAttended       bool       `json:"is_attended"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy      *uuid.UUID `json:"checked_in_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EntityType returns which entity kind the registration belongs to.
func (r *Registration) EntityType() EntityType {
	if r.ProgramID != nil {
		return EntityProgram
	}
	return EntityEvent
}

// EntityID returns the ID of the event or program registered for.
func (r *Registration) EntityID() uuid.UUID {
	if r.ProgramID != nil {
		return *r.ProgramID
	}
	if r.EventID != nil {
		return *r.EventID
	}
	return uuid.Nil
}

// Attendee is the attendee snapshot returned by verification responses.
type Attendee struct {
	FullName     string `json:"full_name"`
	FullNameNe   string `json:"full_name_ne,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
	Designation  string `json:"designation,omitempty"`
}

// AttendeeSnapshot returns the attendee view of the registration.
func (r *Registration) AttendeeSnapshot() Attendee {
	return Attendee{
		FullName:     r.FullName,
		FullNameNe:   r.FullNameNe,
		Email:        r.Email,
		Phone:        r.Phone,
		Organization: r.Organization,
		Designation:  r.Designation,
	}
}

// AttendanceStats aggregates non-cancelled registrations for an entity.
type AttendanceStats struct {
	TotalRegistered int `json:"total_registered"`
	TotalAttended   int `json:"total_attended"`
	AttendanceRate  int `json:"attendance_rate"`
}
