// Package audit records a best-effort trail of registration and check-in
// actions. A failed write is logged and dropped; it never fails the request
// that triggered it.
package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
)

// Repository persists audit entries.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRepository creates an audit repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{pool: pool, logger: logger}
}

// Record writes one audit entry, swallowing any error.
func (r *Repository) Record(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *uuid.UUID, detail string) {
	const q = `INSERT INTO audit_logs (actor_id, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, NULLIF($5,''))`
	if _, err := r.pool.Exec(ctx, q, actorID, action, targetType, targetID, detail); err != nil {
		r.logger.Warn("audit write failed", zap.Error(err), zap.String("action", action))
	}
}

// ListRecent returns the latest audit entries for committee review.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, action, target_type, target_id, COALESCE(detail,''), created_at
		 FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AuditLog
	for rows.Next() {
		var a models.AuditLog
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Action, &a.TargetType, &a.TargetID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
