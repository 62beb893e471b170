package registrations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// RegisterRequest is the body for POST /events/:id/register and
// POST /programs/:id/register. Designation applies to events only.
type RegisterRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	FullNameNe   string `json:"full_name_ne"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Designation  string `json:"designation"`
}

// duplicateResponse is the 409 body carrying the existing credentials.
type duplicateResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	AlreadyRegistered bool   `json:"already_registered"`
	RegistrationCode  string `json:"registration_code"`
	QRImage           string `json:"qr_image,omitempty"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	service *Service
	repo    *Repository
	logger  *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(service *Service, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// RegisterEvent handles POST /events/:id/register (public).
func (h *Handler) RegisterEvent(c *gin.Context) {
	h.register(c, models.EntityEvent)
}

// RegisterProgram handles POST /programs/:id/register (public).
func (h *Handler) RegisterProgram(c *gin.Context) {
	h.register(c, models.EntityProgram)
}

func (h *Handler) register(c *gin.Context, typ models.EntityType) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation failed: "+err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), typ, entityID, RegisterInput{
		FullName:     req.FullName,
		FullNameNe:   req.FullNameNe,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		Designation:  req.Designation,
	})
	if err != nil {
		var dup *AlreadyRegisteredError
		switch {
		case errors.As(err, &dup):
			response.Conflict(c, duplicateResponse{
				Error:             "already registered",
				AlreadyRegistered: true,
				RegistrationCode:  dup.RegistrationCode,
				QRImage:           dup.QRImage,
			})
		case errors.Is(err, ErrEntityNotFound):
			response.NotFound(c, "entity not found")
		case errors.Is(err, ErrRegistrationClosed):
			response.BadRequest(c, "registration closed")
		case errors.Is(err, ErrDeadlinePassed):
			response.BadRequest(c, "deadline passed")
		case errors.Is(err, ErrCapacityExceeded):
			response.BadRequest(c, "capacity exceeded")
		case errors.Is(err, ErrValidation):
			response.BadRequest(c, "validation failed")
		default:
			h.logger.Error("register failed", zap.Error(err),
				zap.String("entity_type", string(typ)), zap.String("entity_id", entityID.String()))
			response.Internal(c, "failed to register")
		}
		return
	}

	response.OK(c, result)
}

// ListByEvent handles GET /events/:id/registrations (committee).
func (h *Handler) ListByEvent(c *gin.Context) {
	h.list(c, models.EntityEvent)
}

// ListByProgram handles GET /programs/:id/registrations (committee).
func (h *Handler) ListByProgram(c *gin.Context) {
	h.list(c, models.EntityProgram)
}

func (h *Handler) list(c *gin.Context, typ models.EntityType) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	list, err := h.repo.ListByEntity(c.Request.Context(), typ, entityID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}
