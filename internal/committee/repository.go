package committee

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

const columns = `id, full_name, COALESCE(full_name_ne,''), COALESCE(designation,''), COALESCE(designation_ne,''),
	COALESCE(photo_url,''), COALESCE(email,''), COALESCE(phone,''), display_order, created_at, updated_at`

// Repository handles committee member persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a committee member repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new committee member.
func (r *Repository) Create(ctx context.Context, m *models.CommitteeMember) error {
	const q = `INSERT INTO committee_members (full_name, full_name_ne, designation, designation_ne, photo_url, email, phone, display_order)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), $8)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.FullName, m.FullNameNe, m.Designation, m.DesignationNe,
		m.PhotoURL, m.Email, m.Phone, m.DisplayOrder).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a committee member by ID, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.CommitteeMember, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM committee_members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// List returns committee members in display order.
func (r *Repository) List(ctx context.Context) ([]models.CommitteeMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM committee_members ORDER BY display_order ASC, full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.CommitteeMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// Update writes the full set of editable fields.
func (r *Repository) Update(ctx context.Context, m *models.CommitteeMember) error {
	const q = `UPDATE committee_members SET full_name = $1, full_name_ne = NULLIF($2,''),
			designation = NULLIF($3,''), designation_ne = NULLIF($4,''), photo_url = NULLIF($5,''),
			email = NULLIF($6,''), phone = NULLIF($7,''), display_order = $8, updated_at = NOW()
		WHERE id = $9`
	_, err := r.pool.Exec(ctx, q, m.FullName, m.FullNameNe, m.Designation, m.DesignationNe,
		m.PhotoURL, m.Email, m.Phone, m.DisplayOrder, m.ID)
	return err
}

// Delete removes a committee member by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM committee_members WHERE id = $1`, id)
	return err
}

func scanMember(row pgx.Row) (*models.CommitteeMember, error) {
	var m models.CommitteeMember
	err := row.Scan(&m.ID, &m.FullName, &m.FullNameNe, &m.Designation, &m.DesignationNe,
		&m.PhotoURL, &m.Email, &m.Phone, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
