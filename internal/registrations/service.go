package registrations

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
)

// Registration outcome errors, checked in order.
var (
	ErrEntityNotFound     = errors.New("entity not found")
	ErrRegistrationClosed = errors.New("registration closed")
	ErrDeadlinePassed     = errors.New("deadline passed")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrValidation         = errors.New("validation failed")
)

// AlreadyRegisteredError is a distinguishable outcome, not a hard failure:
// it carries the attendee's existing code and QR so the caller can show
// "you're already registered" with the original credentials.
type AlreadyRegisteredError struct {
	RegistrationCode string
	QRImage          string
}

func (e *AlreadyRegisteredError) Error() string {
	return "already registered with code " + e.RegistrationCode
}

// Store is the persistence surface the registration service needs.
type Store interface {
	// GetEntity returns the entity snapshot, or nil when it does not exist.
	GetEntity(ctx context.Context, typ models.EntityType, id uuid.UUID) (*models.EntityInfo, error)
	// CountRegistered returns the live count of non-cancelled registrations.
	CountRegistered(ctx context.Context, typ models.EntityType, id uuid.UUID) (int, error)
	// Insert persists a registration. Returns ErrDuplicateEmail when the
	// (entity, email) uniqueness constraint rejects the row, ErrDuplicateCode
	// on a registration-code collision.
	Insert(ctx context.Context, reg *models.Registration) error
	// GetByEntityAndEmail returns the existing registration, or nil.
	GetByEntityAndEmail(ctx context.Context, typ models.EntityType, id uuid.UUID, email string) (*models.Registration, error)
}

// EmailDispatcher accepts a confirmation email for delivery. Implementations
// queue or send; either way failure must not fail the registration.
type EmailDispatcher interface {
	DispatchConfirmation(ctx context.Context, reg *models.Registration, entity *models.EntityInfo, qrPNG []byte) error
}

// AuditRecorder records best-effort audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *uuid.UUID, detail string)
}

// RegisterInput is the attendee info captured at registration time.
type RegisterInput struct {
	FullName     string
	FullNameNe   string
	Email        string
	Phone        string
	Organization string
	Designation  string
}

// RegisterResult is returned to the caller on success.
type RegisterResult struct {
	RegistrationCode string `json:"registration_code"`
	QRImage          string `json:"qr_image"`
	VerifyURL        string `json:"verify_url"`
	EntityTitle      string `json:"entity_title"`
	EntityTitleNe    string `json:"entity_title_ne,omitempty"`
	EntityDate       string `json:"entity_date"`
	EntityLocation   string `json:"entity_location"`
	EmailSent        bool   `json:"email_sent"`
}

const qrImageSize = 256

// codeAttempts bounds regeneration on registration-code collisions. With
// ~3.3M combinations per prefix-year a second collision is already unlikely.
const codeAttempts = 3

// Service implements the registration flow for events and programs.
type Service struct {
	store      Store
	mailer     EmailDispatcher // nil disables email
	audit      AuditRecorder   // nil disables auditing
	siteOrigin string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a registration service.
func NewService(store Store, mailer EmailDispatcher, audit AuditRecorder, siteOrigin string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		mailer:     mailer,
		audit:      audit,
		siteOrigin: strings.TrimRight(siteOrigin, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// VerifyURL returns the verification URL embedded in the QR payload.
func (s *Service) VerifyURL(code string) string {
	return s.siteOrigin + "/verify/" + code
}

// Register validates and persists one registration. Preconditions are checked
// in order, each short-circuiting with a distinct error. Duplicate detection
// is left to the database's unique index: the insert either lands or comes
// back as a duplicate, so two near-simultaneous submissions cannot both
// succeed.
func (s *Service) Register(ctx context.Context, typ models.EntityType, entityID uuid.UUID, in RegisterInput) (*RegisterResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	entity, err := s.store.GetEntity(ctx, typ, entityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}
	if !entity.IsRegistrationOpen {
		return nil, ErrRegistrationClosed
	}
	if entity.RegistrationDeadline != nil && s.now().After(*entity.RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}
	if entity.MaxAttendees != nil {
		// Advisory capacity check: a live count, but not an atomic
		// reservation. Slight over-admission under a race is accepted.
		count, err := s.store.CountRegistered(ctx, typ, entityID)
		if err != nil {
			return nil, err
		}
		if count >= *entity.MaxAttendees {
			return nil, ErrCapacityExceeded
		}
	}

	reg, err := s.insertWithFreshCode(ctx, typ, entityID, entity, in)
	if err != nil {
		return nil, err
	}

	qrPNG, err := qrcode.Encode(reg.QRData, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	emailSent := false
	if s.mailer != nil {
		if err := s.mailer.DispatchConfirmation(ctx, reg, entity, qrPNG); err != nil {
			// Email is best-effort; the registration row is the source of truth.
			s.logger.Warn("confirmation email dispatch failed",
				zap.Error(err), zap.String("code", reg.RegistrationCode))
		} else {
			emailSent = true
		}
	}

	if s.audit != nil {
		s.audit.Record(ctx, nil, models.AuditActionRegister, "registration", &reg.ID,
			fmt.Sprintf("%s %s registered for %s %q", reg.RegistrationCode, reg.Email, typ, entity.Title))
	}

	return &RegisterResult{
		RegistrationCode: reg.RegistrationCode,
		QRImage:          qrDataURL(qrPNG),
		VerifyURL:        reg.QRData,
		EntityTitle:      entity.Title,
		EntityTitleNe:    entity.TitleNe,
		EntityDate:       entity.Date.Format("2006-01-02"),
		EntityLocation:   entity.Location,
		EmailSent:        emailSent,
	}, nil
}

func (s *Service) insertWithFreshCode(ctx context.Context, typ models.EntityType, entityID uuid.UUID, entity *models.EntityInfo, in RegisterInput) (*models.Registration, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := NewCode(typ, s.now().Year())
		if err != nil {
			return nil, err
		}
		reg := &models.Registration{
			FullName:         in.FullName,
			FullNameNe:       in.FullNameNe,
			Email:            in.Email,
			Phone:            in.Phone,
			Organization:     in.Organization,
			RegistrationCode: code,
			QRData:           s.VerifyURL(code),
			Status:           models.StatusRegistered,
		}
		if typ == models.EntityProgram {
			reg.ProgramID = &entityID
		} else {
			reg.EventID = &entityID
			reg.Designation = in.Designation
		}

		err = s.store.Insert(ctx, reg)
		switch {
		case err == nil:
			return reg, nil
		case errors.Is(err, ErrDuplicateCode):
			continue
		case errors.Is(err, ErrDuplicateEmail):
			return nil, s.alreadyRegistered(ctx, typ, entityID, in.Email)
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("registration code collision persisted after %d attempts", codeAttempts)
}

// alreadyRegistered builds the AlreadyRegistered outcome from the existing row.
func (s *Service) alreadyRegistered(ctx context.Context, typ models.EntityType, entityID uuid.UUID, email string) error {
	existing, err := s.store.GetByEntityAndEmail(ctx, typ, entityID, email)
	if err != nil || existing == nil {
		// The row that just beat us should be there; if not, report generically.
		return &AlreadyRegisteredError{}
	}
	qrImage := ""
	if png, qerr := qrcode.Encode(existing.QRData, qrcode.Medium, qrImageSize); qerr == nil {
		qrImage = qrDataURL(png)
	}
	return &AlreadyRegisteredError{
		RegistrationCode: existing.RegistrationCode,
		QRImage:          qrImage,
	}
}

func validateInput(in RegisterInput) error {
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}

func qrDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
