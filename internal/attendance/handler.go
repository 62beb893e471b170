package attendance

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// VerifyRequest is the body for POST /attendance/verify. The code may be a
// bare registration code or the full decoded QR payload.
type VerifyRequest struct {
	RegistrationCode string `json:"registration_code" binding:"required"`
}

// Handler handles attendance HTTP endpoints. All routes require the
// committee role, enforced by route middleware.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates an attendance handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Verify handles POST /attendance/verify. Every classification, internal
// failures included, is returned as 200 with a status field so the
// scanner UI can show the operator a single, distinct outcome per scan.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "registration_code required")
		return
	}
	operator := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	result, err := h.service.Verify(c.Request.Context(), req.RegistrationCode, operator)
	if err != nil {
		h.logger.Error("verify failed", zap.Error(err), zap.String("operator", operator.String()))
		c.JSON(http.StatusOK, Result{Status: StatusError, Message: "verification failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// StatsByEvent handles GET /events/:id/attendance (committee).
func (h *Handler) StatsByEvent(c *gin.Context) {
	h.stats(c, models.EntityEvent)
}

// StatsByProgram handles GET /programs/:id/attendance (committee).
func (h *Handler) StatsByProgram(c *gin.Context) {
	h.stats(c, models.EntityProgram)
}

func (h *Handler) stats(c *gin.Context, typ models.EntityType) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	stats, err := h.service.StatsFor(c.Request.Context(), typ, id)
	if err != nil {
		response.Internal(c, "failed to load attendance stats")
		return
	}
	response.OK(c, stats)
}
