package emaillogs

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gandaki-ict/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, event_id, program_id, registration_id, email_type, recipient_email,
	COALESCE(subject,''), status, sent_at, COALESCE(error_message,''), created_at`

// Create inserts a pending email log row.
func (r *Repository) Create(ctx context.Context, log *models.EmailLog) error {
	const q = `INSERT INTO email_logs (event_id, program_id, registration_id, email_type, recipient_email, subject, status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, log.EventID, log.ProgramID, log.RegistrationID,
		log.EmailType, log.RecipientEmail, log.Subject, log.Status).
		Scan(&log.ID, &log.CreatedAt)
}

// MarkSent records successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status = 'sent', sent_at = NOW(), error_message = NULL WHERE id = $1`, id)
	return err
}

// MarkFailed records a delivery failure.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status = 'failed', error_message = $2 WHERE id = $1`, id, errMsg)
	return err
}

// ListByEvent returns email logs for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EmailLog, error) {
	return r.list(ctx, `SELECT `+columns+` FROM email_logs WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
}

// ListByProgram returns email logs for a program, newest first.
func (r *Repository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]models.EmailLog, error) {
	return r.list(ctx, `SELECT `+columns+` FROM email_logs WHERE program_id = $1 ORDER BY created_at DESC`, programID)
}

func (r *Repository) list(ctx context.Context, q string, arg interface{}) ([]models.EmailLog, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		if err := rows.Scan(&el.ID, &el.EventID, &el.ProgramID, &el.RegistrationID, &el.EmailType,
			&el.RecipientEmail, &el.Subject, &el.Status, &el.SentAt, &el.ErrorMessage, &el.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, el)
	}
	return list, rows.Err()
}
