package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded for the registration/check-in flow.
const (
	AuditActionRegister      = "register"
	AuditActionCheckIn       = "check_in"
	AuditActionScanRejected  = "scan_rejected"
	AuditActionCancelledScan = "scan_cancelled"
	AuditActionEmailResend   = "email_resend"
)

// AuditLog is one best-effort audit entry. Writing it must never fail a request.
type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Action     string     `json:"action"`
	TargetType string     `json:"target_type"`
	TargetID   *uuid.UUID `json:"target_id,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
