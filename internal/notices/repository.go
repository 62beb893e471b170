package notices

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

const columns = `id, title, COALESCE(title_ne,''), COALESCE(body,''), COALESCE(body_ne,''),
	COALESCE(attachment_url,''), published_at, created_by, created_at, updated_at`

// Repository handles notice persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notice repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new notice.
func (r *Repository) Create(ctx context.Context, n *models.Notice) error {
	const q = `INSERT INTO notices (title, title_ne, body, body_ne, attachment_url, published_at, created_by)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, n.Title, n.TitleNe, n.Body, n.BodyNe, n.AttachmentURL, n.PublishedAt, n.CreatedBy).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

// GetByID returns a notice by ID, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM notices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// List returns notices, newest first. When publishedOnly is set, unpublished
// drafts are excluded.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]models.Notice, error) {
	q := `SELECT ` + columns + ` FROM notices ORDER BY created_at DESC`
	if publishedOnly {
		q = `SELECT ` + columns + ` FROM notices WHERE published_at IS NOT NULL AND published_at <= NOW() ORDER BY published_at DESC`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// Update writes the full set of editable fields.
func (r *Repository) Update(ctx context.Context, n *models.Notice) error {
	const q = `UPDATE notices SET title = $1, title_ne = NULLIF($2,''), body = NULLIF($3,''),
			body_ne = NULLIF($4,''), attachment_url = NULLIF($5,''), published_at = $6, updated_at = NOW()
		WHERE id = $7`
	_, err := r.pool.Exec(ctx, q, n.Title, n.TitleNe, n.Body, n.BodyNe, n.AttachmentURL, n.PublishedAt, n.ID)
	return err
}

// Delete removes a notice by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	return err
}

func scanNotice(row pgx.Row) (*models.Notice, error) {
	var n models.Notice
	var createdBy *uuid.UUID
	err := row.Scan(&n.ID, &n.Title, &n.TitleNe, &n.Body, &n.BodyNe,
		&n.AttachmentURL, &n.PublishedAt, &createdBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		n.CreatedBy = *createdBy
	}
	return &n, nil
}
