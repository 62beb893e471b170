package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/internal/registrations"
)

// Verification outcomes, mutually exclusive.
const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// Store is the persistence surface for attendance verification.
type Store interface {
	// GetByCode returns the registration with the exact code, or nil.
	GetByCode(ctx context.Context, code string) (*models.Registration, error)
	// MarkAttended flips the registration to attended. The update is
	// conditional on is_attended = false; applied is false when another
	// scan won the race, in which case checkedInAt is the winner's time.
	MarkAttended(ctx context.Context, id, operator uuid.UUID) (checkedInAt time.Time, applied bool, err error)
	// GetEntity returns the entity snapshot for the result payload.
	GetEntity(ctx context.Context, typ models.EntityType, id uuid.UUID) (*models.EntityInfo, error)
	// Stats aggregates non-cancelled registrations for the entity.
	Stats(ctx context.Context, typ models.EntityType, id uuid.UUID) (models.AttendanceStats, error)
}

// LiveFeed pushes check-in updates to connected scanner dashboards.
type LiveFeed interface {
	PublishCheckIn(typ models.EntityType, entityID uuid.UUID, attendee models.Attendee, stats models.AttendanceStats)
}

// Result is the verification response for every classification.
type Result struct {
	Status      string                  `json:"status"`
	Message     string                  `json:"message"`
	Attendee    *models.Attendee        `json:"attendee,omitempty"`
	Entity      *models.EntityInfo      `json:"entity,omitempty"`
	Stats       *models.AttendanceStats `json:"stats,omitempty"`
	CheckedInAt string                  `json:"checked_in_at,omitempty"`
}

// Service implements attendance verification (check-in).
type Service struct {
	store  Store
	audit  registrations.AuditRecorder // nil disables auditing
	live   LiveFeed                    // nil disables the live feed
	logger *zap.Logger
}

// NewService creates an attendance verification service.
func NewService(store Store, audit registrations.AuditRecorder, live LiveFeed, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, audit: audit, live: live, logger: logger}
}

// Verify looks up a registration by its code and, on first scan, marks it
// attended. The payload may be a full verification URL from the scanner; the
// code is extracted before lookup. Terminal states (attended, cancelled) are
// reported without mutation, so verification is idempotent past the first
// success.
func (s *Service) Verify(ctx context.Context, payload string, operator uuid.UUID) (*Result, error) {
	code := registrations.ExtractCode(payload)

	reg, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		s.record(ctx, operator, models.AuditActionScanRejected, nil, "unknown code "+code)
		return &Result{Status: StatusInvalid, Message: "registration not found"}, nil
	}

	attendee := reg.AttendeeSnapshot()

	if reg.Status == models.StatusCancelled {
		s.record(ctx, operator, models.AuditActionCancelledScan, &reg.ID, "scan of cancelled registration "+code)
		return &Result{
			Status:   StatusCancelled,
			Message:  "registration was cancelled",
			Attendee: &attendee,
		}, nil
	}

	if reg.IsAttended {
		return s.duplicateResult(ctx, reg, attendee, operator, *reg.CheckedInAt), nil
	}

	checkedInAt, applied, err := s.store.MarkAttended(ctx, reg.ID, operator)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with a concurrent scan of the same badge.
		return s.duplicateResult(ctx, reg, attendee, operator, checkedInAt), nil
	}

	entityType := reg.EntityType()
	entityID := reg.EntityID()
	entity, err := s.store.GetEntity(ctx, entityType, entityID)
	if err != nil {
		s.logger.Warn("entity snapshot failed after check-in", zap.Error(err))
	}
	stats, err := s.store.Stats(ctx, entityType, entityID)
	if err != nil {
		s.logger.Warn("stats query failed after check-in", zap.Error(err))
	}

	s.record(ctx, operator, models.AuditActionCheckIn, &reg.ID,
		fmt.Sprintf("checked in %s (%s)", reg.FullName, code))
	if s.live != nil {
		s.live.PublishCheckIn(entityType, entityID, attendee, stats)
	}

	return &Result{
		Status:      StatusSuccess,
		Message:     "checked in: " + reg.FullName,
		Attendee:    &attendee,
		Entity:      entity,
		Stats:       &stats,
		CheckedInAt: checkedInAt.Format(time.RFC3339),
	}, nil
}

// StatsFor returns aggregate attendance stats for an entity.
func (s *Service) StatsFor(ctx context.Context, typ models.EntityType, id uuid.UUID) (models.AttendanceStats, error) {
	return s.store.Stats(ctx, typ, id)
}

func (s *Service) duplicateResult(ctx context.Context, reg *models.Registration, attendee models.Attendee, operator uuid.UUID, checkedInAt time.Time) *Result {
	s.record(ctx, operator, models.AuditActionScanRejected, &reg.ID,
		"duplicate scan of "+reg.RegistrationCode)
	return &Result{
		Status:      StatusDuplicate,
		Message:     "already checked in at " + checkedInAt.Local().Format("15:04"),
		Attendee:    &attendee,
		CheckedInAt: checkedInAt.Format(time.RFC3339),
	}
}

func (s *Service) record(ctx context.Context, operator uuid.UUID, action string, targetID *uuid.UUID, detail string) {
	if s.audit == nil {
		return
	}
	op := operator
	s.audit.Record(ctx, &op, action, "registration", targetID, detail)
}

// Rate computes the attendance percentage, with zero registrations defined
// as rate 0 rather than a division error.
func Rate(registered, attended int) int {
	if registered <= 0 {
		return 0
	}
	return int(float64(attended)/float64(registered)*100 + 0.5)
}
