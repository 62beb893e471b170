package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

// Repository implements Store against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByCode returns the registration with the exact code, or nil.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Registration, error) {
	const q = `SELECT id, event_id, program_id, full_name, COALESCE(full_name_ne,''), email,
		COALESCE(phone,''), COALESCE(organization,''), COALESCE(designation,''),
		registration_code, qr_data, status, is_attended, checked_in_at, checked_in_by,
		created_at, updated_at
		FROM registrations WHERE registration_code = $1`
	var reg models.Registration
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&reg.ID, &reg.EventID, &reg.ProgramID, &reg.FullName, &reg.FullNameNe, &reg.Email,
		&reg.Phone, &reg.Organization, &reg.Designation,
		&reg.RegistrationCode, &reg.QRData, &reg.Status, &reg.IsAttended, &reg.CheckedInAt, &reg.CheckedInBy,
		&reg.CreatedAt, &reg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// MarkAttended flips the registration to attended. The WHERE guard on
// is_attended makes concurrent scans of the same code race safely: exactly
// one update applies, the loser reads back the winner's check-in time.
func (r *Repository) MarkAttended(ctx context.Context, id, operator uuid.UUID) (time.Time, bool, error) {
	const q = `UPDATE registrations
		SET is_attended = TRUE, checked_in_at = NOW(), checked_in_by = $2,
		    status = 'attended', updated_at = NOW()
		WHERE id = $1 AND is_attended = FALSE
		RETURNING checked_in_at`
	var checkedInAt time.Time
	err := r.pool.QueryRow(ctx, q, id, operator).Scan(&checkedInAt)
	if err == nil {
		return checkedInAt, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, err
	}

	// Already attended; report the existing check-in time.
	var existing *time.Time
	if err := r.pool.QueryRow(ctx,
		`SELECT checked_in_at FROM registrations WHERE id = $1`, id).Scan(&existing); err != nil {
		return time.Time{}, false, err
	}
	if existing == nil {
		return time.Time{}, false, nil
	}
	return *existing, false, nil
}

// GetEntity returns the entity snapshot used in verification responses.
func (r *Repository) GetEntity(ctx context.Context, typ models.EntityType, id uuid.UUID) (*models.EntityInfo, error) {
	var q string
	if typ == models.EntityProgram {
		q = `SELECT id, title, COALESCE(title_ne,''), start_date, COALESCE(location,''), COALESCE(location_ne,''),
			is_registration_open, registration_deadline, max_participants
			FROM programs WHERE id = $1`
	} else {
		q = `SELECT id, title, COALESCE(title_ne,''), event_date, COALESCE(location,''), COALESCE(location_ne,''),
			is_registration_open, registration_deadline, max_attendees
			FROM events WHERE id = $1`
	}
	info := models.EntityInfo{Type: typ}
	err := r.pool.QueryRow(ctx, q, id).Scan(&info.ID, &info.Title, &info.TitleNe, &info.Date,
		&info.Location, &info.LocationNe, &info.IsRegistrationOpen, &info.RegistrationDeadline, &info.MaxAttendees)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Stats aggregates non-cancelled registrations for the entity.
func (r *Repository) Stats(ctx context.Context, typ models.EntityType, id uuid.UUID) (models.AttendanceStats, error) {
	q := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_attended)
		FROM registrations WHERE event_id = $1 AND status <> 'cancelled'`
	if typ == models.EntityProgram {
		q = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_attended)
			FROM registrations WHERE program_id = $1 AND status <> 'cancelled'`
	}
	var stats models.AttendanceStats
	if err := r.pool.QueryRow(ctx, q, id).Scan(&stats.TotalRegistered, &stats.TotalAttended); err != nil {
		return stats, err
	}
	stats.AttendanceRate = Rate(stats.TotalRegistered, stats.TotalAttended)
	return stats, nil
}
