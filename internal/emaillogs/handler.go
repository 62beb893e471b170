package emaillogs

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/internal/registrations"
	"github.com/gandaki-ict/backend/pkg/response"
)

const qrImageSize = 256

// Handler handles email log endpoints. All routes require the committee role.
type Handler struct {
	repo       *Repository
	regs       *registrations.Repository
	dispatcher registrations.EmailDispatcher
	audit      registrations.AuditRecorder
	logger     *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository, regs *registrations.Repository, dispatcher registrations.EmailDispatcher, audit registrations.AuditRecorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, regs: regs, dispatcher: dispatcher, audit: audit, logger: logger}
}

// ListByEvent handles GET /events/:id/emails.
func (h *Handler) ListByEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	logs, err := h.repo.ListByEvent(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list email logs")
		return
	}
	response.OK(c, logs)
}

// ListByProgram handles GET /programs/:id/emails.
func (h *Handler) ListByProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	logs, err := h.repo.ListByProgram(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list email logs")
		return
	}
	response.OK(c, logs)
}

// Resend handles POST /registrations/:id/emails/resend. It rebuilds the
// confirmation from the stored registration, so it works even when the
// original dispatch never produced a log row.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	ctx := c.Request.Context()

	reg, err := h.regs.GetByID(ctx, id)
	if err != nil {
		response.Internal(c, "failed to load registration")
		return
	}
	if reg == nil {
		response.NotFound(c, "registration not found")
		return
	}
	if reg.Status == models.StatusCancelled {
		response.BadRequest(c, "registration is cancelled")
		return
	}

	entity, err := h.regs.GetEntity(ctx, reg.EntityType(), reg.EntityID())
	if err != nil || entity == nil {
		response.Internal(c, "failed to load event details")
		return
	}

	qrPNG, err := qrcode.Encode(reg.QRData, qrcode.Medium, qrImageSize)
	if err != nil {
		response.Internal(c, "failed to render qr code")
		return
	}

	if err := h.dispatcher.DispatchConfirmation(ctx, reg, entity, qrPNG); err != nil {
		h.logger.Error("resend dispatch failed", zap.Error(err), zap.String("code", reg.RegistrationCode))
		response.Internal(c, "failed to resend confirmation email")
		return
	}

	if h.audit != nil {
		operator := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		h.audit.Record(ctx, &operator, models.AuditActionEmailResend, "registration", &reg.ID,
			fmt.Sprintf("confirmation resent to %s for %s", reg.Email, reg.RegistrationCode))
	}

	response.OK(c, gin.H{"resent": true, "recipient": reg.Email})
}
