package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

const columns = `id, title, COALESCE(title_ne,''), COALESCE(description,''), COALESCE(description_ne,''),
	event_date, COALESCE(location,''), COALESCE(location_ne,''), is_registration_open,
	registration_deadline, max_attendees, COALESCE(image_url,''), created_by, created_at, updated_at`

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (title, title_ne, description, description_ne, event_date, location, location_ne,
			is_registration_open, registration_deadline, max_attendees, image_url, created_by)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), $5, NULLIF($6,''), NULLIF($7,''), $8, $9, $10, NULLIF($11,''), $12)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.TitleNe, e.Description, e.DescriptionNe, e.EventDate,
		e.Location, e.LocationNe, e.IsRegistrationOpen, e.RegistrationDeadline, e.MaxAttendees,
		e.ImageURL, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// List returns events, newest first. When upcomingOnly is set, past events
// are excluded and the order flips to soonest first.
func (r *Repository) List(ctx context.Context, upcomingOnly bool) ([]models.Event, error) {
	q := `SELECT ` + columns + ` FROM events ORDER BY event_date DESC`
	if upcomingOnly {
		q = `SELECT ` + columns + ` FROM events WHERE event_date >= NOW() ORDER BY event_date ASC`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update writes the full set of editable fields.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $1, title_ne = NULLIF($2,''), description = NULLIF($3,''),
			description_ne = NULLIF($4,''), event_date = $5, location = NULLIF($6,''), location_ne = NULLIF($7,''),
			is_registration_open = $8, registration_deadline = $9, max_attendees = $10,
			image_url = NULLIF($11,''), updated_at = NOW()
		WHERE id = $12`
	_, err := r.pool.Exec(ctx, q, e.Title, e.TitleNe, e.Description, e.DescriptionNe, e.EventDate,
		e.Location, e.LocationNe, e.IsRegistrationOpen, e.RegistrationDeadline, e.MaxAttendees,
		e.ImageURL, e.ID)
	return err
}

// Delete removes an event by ID. Registrations cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	var createdBy *uuid.UUID
	err := row.Scan(&e.ID, &e.Title, &e.TitleNe, &e.Description, &e.DescriptionNe,
		&e.EventDate, &e.Location, &e.LocationNe, &e.IsRegistrationOpen,
		&e.RegistrationDeadline, &e.MaxAttendees, &e.ImageURL, &createdBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}
