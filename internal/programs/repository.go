package programs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

const columns = `id, title, COALESCE(title_ne,''), COALESCE(description,''), COALESCE(description_ne,''),
	start_date, end_date, COALESCE(location,''), COALESCE(location_ne,''), is_registration_open,
	registration_deadline, max_participants, COALESCE(image_url,''), created_by, created_at, updated_at`

// Repository handles program persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a program repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new program.
func (r *Repository) Create(ctx context.Context, p *models.Program) error {
	const q = `INSERT INTO programs (title, title_ne, description, description_ne, start_date, end_date,
			location, location_ne, is_registration_open, registration_deadline, max_participants, image_url, created_by)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), $5, $6, NULLIF($7,''), NULLIF($8,''), $9, $10, $11, NULLIF($12,''), $13)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Title, p.TitleNe, p.Description, p.DescriptionNe, p.StartDate, p.EndDate,
		p.Location, p.LocationNe, p.IsRegistrationOpen, p.RegistrationDeadline, p.MaxParticipants,
		p.ImageURL, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a program by ID, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	p, err := scanProgram(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM programs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// List returns programs. When upcomingOnly is set, programs that already
// ended are excluded.
func (r *Repository) List(ctx context.Context, upcomingOnly bool) ([]models.Program, error) {
	q := `SELECT ` + columns + ` FROM programs ORDER BY start_date DESC`
	if upcomingOnly {
		q = `SELECT ` + columns + ` FROM programs WHERE COALESCE(end_date, start_date) >= NOW() ORDER BY start_date ASC`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// Update writes the full set of editable fields.
func (r *Repository) Update(ctx context.Context, p *models.Program) error {
	const q = `UPDATE programs SET title = $1, title_ne = NULLIF($2,''), description = NULLIF($3,''),
			description_ne = NULLIF($4,''), start_date = $5, end_date = $6, location = NULLIF($7,''),
			location_ne = NULLIF($8,''), is_registration_open = $9, registration_deadline = $10,
			max_participants = $11, image_url = NULLIF($12,''), updated_at = NOW()
		WHERE id = $13`
	_, err := r.pool.Exec(ctx, q, p.Title, p.TitleNe, p.Description, p.DescriptionNe, p.StartDate, p.EndDate,
		p.Location, p.LocationNe, p.IsRegistrationOpen, p.RegistrationDeadline, p.MaxParticipants,
		p.ImageURL, p.ID)
	return err
}

// Delete removes a program by ID. Registrations cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	return err
}

func scanProgram(row pgx.Row) (*models.Program, error) {
	var p models.Program
	var createdBy *uuid.UUID
	err := row.Scan(&p.ID, &p.Title, &p.TitleNe, &p.Description, &p.DescriptionNe,
		&p.StartDate, &p.EndDate, &p.Location, &p.LocationNe, &p.IsRegistrationOpen,
		&p.RegistrationDeadline, &p.MaxParticipants, &p.ImageURL, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}
