package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCodePrefix(t *testing.T) {
	if got := EntityEvent.CodePrefix(); got != "EVT" {
		t.Errorf("event prefix = %q, want EVT", got)
	}
	if got := EntityProgram.CodePrefix(); got != "PRG" {
		t.Errorf("program prefix = %q, want PRG", got)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"committee", "subcommittee", "member"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", valid)
		}
	}
	for _, invalid := range []string{"", "admin", "Committee"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted an invalid role", invalid)
		}
	}
}

func TestEventInfo(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	max := 80
	ev := Event{
		ID:                   uuid.New(),
		Title:                "Digital Literacy Workshop",
		TitleNe:              "डिजिटल साक्षरता कार्यशाला",
		EventDate:            time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		Location:             "Pokhara",
		IsRegistrationOpen:   true,
		RegistrationDeadline: &deadline,
		MaxAttendees:         &max,
	}

	info := ev.Info()
	if info.Type != EntityEvent {
		t.Errorf("type = %q, want event", info.Type)
	}
	if info.ID != ev.ID || info.Title != ev.Title || info.TitleNe != ev.TitleNe {
		t.Error("identity fields not carried over")
	}
	if !info.Date.Equal(ev.EventDate) {
		t.Errorf("date = %v, want %v", info.Date, ev.EventDate)
	}
	if info.RegistrationDeadline != &deadline || info.MaxAttendees != &max {
		t.Error("deadline or capacity not carried over")
	}
}

func TestProgramInfo(t *testing.T) {
	max := 25
	p := Program{
		ID:                 uuid.New(),
		Title:              "Rural Connectivity Training",
		StartDate:          time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
		IsRegistrationOpen: true,
		MaxParticipants:    &max,
	}

	info := p.Info()
	if info.Type != EntityProgram {
		t.Errorf("type = %q, want program", info.Type)
	}
	if !info.Date.Equal(p.StartDate) {
		t.Errorf("date = %v, want start date %v", info.Date, p.StartDate)
	}
	if info.MaxAttendees != &max {
		t.Error("participant cap not mapped to MaxAttendees")
	}
}

func TestRegistrationEntityHelpers(t *testing.T) {
	eventID := uuid.New()
	programID := uuid.New()

	evReg := Registration{EventID: &eventID}
	if evReg.EntityType() != EntityEvent || evReg.EntityID() != eventID {
		t.Error("event registration helpers wrong")
	}

	prReg := Registration{ProgramID: &programID}
	if prReg.EntityType() != EntityProgram || prReg.EntityID() != programID {
		t.Error("program registration helpers wrong")
	}

	var empty Registration
	if empty.EntityID() != uuid.Nil {
		t.Error("empty registration should have nil entity ID")
	}
}

func TestAttendeeSnapshot(t *testing.T) {
	reg := Registration{
		FullName:     "Sita Sharma",
		FullNameNe:   "सीता शर्मा",
		Email:        "sita@example.com",
		Phone:        "9800000000",
		Organization: "Gandaki University",
		Designation:  "Lecturer",
	}
	got := reg.AttendeeSnapshot()
	want := Attendee{
		FullName:     "Sita Sharma",
		FullNameNe:   "सीता शर्मा",
		Email:        "sita@example.com",
		Phone:        "9800000000",
		Organization: "Gandaki University",
		Designation:  "Lecturer",
	}
	if got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}

func TestUserToPublic(t *testing.T) {
	u := User{
		ID:       uuid.New(),
		Email:    "admin@gandaki-ict.org.np",
		Password: "$2a$10$secret",
		FullName: "Admin",
		Role:     RoleCommittee,
	}
	pub := u.ToPublic()
	if pub.ID != u.ID || pub.Email != u.Email || pub.Role != u.Role {
		t.Error("public fields not carried over")
	}
}
