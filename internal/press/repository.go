package press

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

const columns = `id, title, COALESCE(title_ne,''), COALESCE(body,''), COALESCE(body_ne,''),
	COALESCE(attachment_url,''), released_on, created_by, created_at, updated_at`

// Repository handles press release persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a press release repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new press release.
func (r *Repository) Create(ctx context.Context, p *models.PressRelease) error {
	const q = `INSERT INTO press_releases (title, title_ne, body, body_ne, attachment_url, released_on, created_by)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Title, p.TitleNe, p.Body, p.BodyNe, p.AttachmentURL, p.ReleasedOn, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a press release by ID, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PressRelease, error) {
	p, err := scanPressRelease(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM press_releases WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// List returns press releases, most recently released first. When
// releasedOnly is set, unreleased drafts are excluded.
func (r *Repository) List(ctx context.Context, releasedOnly bool) ([]models.PressRelease, error) {
	q := `SELECT ` + columns + ` FROM press_releases ORDER BY created_at DESC`
	if releasedOnly {
		q = `SELECT ` + columns + ` FROM press_releases WHERE released_on IS NOT NULL AND released_on <= NOW() ORDER BY released_on DESC`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PressRelease
	for rows.Next() {
		p, err := scanPressRelease(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// Update writes the full set of editable fields.
func (r *Repository) Update(ctx context.Context, p *models.PressRelease) error {
	const q = `UPDATE press_releases SET title = $1, title_ne = NULLIF($2,''), body = NULLIF($3,''),
			body_ne = NULLIF($4,''), attachment_url = NULLIF($5,''), released_on = $6, updated_at = NOW()
		WHERE id = $7`
	_, err := r.pool.Exec(ctx, q, p.Title, p.TitleNe, p.Body, p.BodyNe, p.AttachmentURL, p.ReleasedOn, p.ID)
	return err
}

// Delete removes a press release by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM press_releases WHERE id = $1`, id)
	return err
}

func scanPressRelease(row pgx.Row) (*models.PressRelease, error) {
	var p models.PressRelease
	var createdBy *uuid.UUID
	err := row.Scan(&p.ID, &p.Title, &p.TitleNe, &p.Body, &p.BodyNe,
		&p.AttachmentURL, &p.ReleasedOn, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}
