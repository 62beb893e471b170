package registrations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

// Store errors surfaced from unique-constraint violations.
var (
	ErrDuplicateEmail = errors.New("duplicate registration for entity and email")
	ErrDuplicateCode  = errors.New("registration code collision")
)

const pgUniqueViolation = "23505"

// registrationColumns is the scan list shared by the queries below.
const registrationColumns = `id, event_id, program_id, full_name, full_name_ne, email,
	COALESCE(phone,''), COALESCE(organization,''), COALESCE(designation,''),
	registration_code, qr_data, status, is_attended, checked_in_at, checked_in_by,
	created_at, updated_at`

// Repository handles registration persistence. It also serves entity
// snapshots from the events and programs tables so the service has one
// store dependency.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetEntity returns the registration snapshot of an event or program, or nil
// when no such row exists.
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

// CountRegistered returns the live count of non-cancelled registrations.
func (r *Repository) CountRegistered(ctx context.Context, typ models.EntityType, id uuid.UUID) (int, error) {
	q := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status <> 'cancelled'`
	if typ == models.EntityProgram {
		q = `SELECT COUNT(*) FROM registrations WHERE program_id = $1 AND status <> 'cancelled'`
	}
	var n int
	err := r.pool.QueryRow(ctx, q, id).Scan(&n)
	return n, err
}

// Insert persists a registration. The partial unique indexes on
// (event_id, email) / (program_id, email) and on registration_code turn a
// racing duplicate into a typed error instead of a second row.
func (r *Repository) Insert(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations
		(event_id, program_id, full_name, full_name_ne, email, phone, organization, designation, registration_code, qr_data, status)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''), NULLIF($7,''), NULLIF($8,''), $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		reg.EventID, reg.ProgramID, reg.FullName, reg.FullNameNe, reg.Email,
		reg.Phone, reg.Organization, reg.Designation,
		reg.RegistrationCode, reg.QRData, reg.Status).
		Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == "uq_registrations_code" {
				return ErrDuplicateCode
			}
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEntityAndEmail returns the registration for (entity, email), or nil.
func (r *Repository) GetByEntityAndEmail(ctx context.Context, typ models.EntityType, id uuid.UUID, email string) (*models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND email = $2`
	if typ == models.EntityProgram {
		q = `SELECT ` + registrationColumns + ` FROM registrations WHERE program_id = $1 AND email = $2`
	}
	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, id, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return reg, err
}

// ListByEntity returns registrations for an entity, newest first.
func (r *Repository) ListByEntity(ctx context.Context, typ models.EntityType, id uuid.UUID) ([]models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY created_at DESC`
	if typ == models.EntityProgram {
		q = `SELECT ` + registrationColumns + ` FROM registrations WHERE program_id = $1 ORDER BY created_at DESC`
	}
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// GetByID returns a registration by ID, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	reg, err := scanRegistration(r.pool.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return reg, err
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	var fullNameNe *string
	err := row.Scan(&reg.ID, &reg.EventID, &reg.ProgramID, &reg.FullName, &fullNameNe, &reg.Email,
		&reg.Phone, &reg.Organization, &reg.Designation,
		&reg.RegistrationCode, &reg.QRData, &reg.Status, &reg.IsAttended, &reg.CheckedInAt, &reg.CheckedInBy,
		&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if fullNameNe != nil {
		reg.FullNameNe = *fullNameNe
	}
	return &reg, nil
}
