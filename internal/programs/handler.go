package programs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CreateRequest is the body for POST /programs.
type CreateRequest struct {
	Title                string  `json:"title" binding:"required"`
	TitleNe              string  `json:"title_ne"`
	Description          string  `json:"description"`
	DescriptionNe        string  `json:"description_ne"`
	StartDate            string  `json:"start_date" binding:"required"`
	EndDate              *string `json:"end_date"`
	Location             string  `json:"location"`
	LocationNe           string  `json:"location_ne"`
	IsRegistrationOpen   *bool   `json:"is_registration_open"`
	RegistrationDeadline *string `json:"registration_deadline"`
	MaxParticipants      *int    `json:"max_participants"`
	ImageURL             string  `json:"image_url"`
}

// UpdateRequest is the body for PATCH /programs/:id. Absent fields keep
// their current values.
type UpdateRequest struct {
	Title                *string `json:"title"`
	TitleNe              *string `json:"title_ne"`
	Description          *string `json:"description"`
	DescriptionNe        *string `json:"description_ne"`
	StartDate            *string `json:"start_date"`
	EndDate              *string `json:"end_date"`
	Location             *string `json:"location"`
	LocationNe           *string `json:"location_ne"`
	IsRegistrationOpen   *bool   `json:"is_registration_open"`
	RegistrationDeadline *string `json:"registration_deadline"`
	MaxParticipants      *int    `json:"max_participants"`
	ImageURL             *string `json:"image_url"`
}

// Handler handles program HTTP endpoints. List and GetByID are public; the
// rest require the committee role.
type Handler struct {
	repo *Repository
}

// NewHandler creates a program handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /programs (committee).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	startDate, err := parseTime(req.StartDate)
	if err != nil {
		response.BadRequest(c, "invalid start_date")
		return
	}
	var endDate, deadline *time.Time
	if req.EndDate != nil {
		t, err := parseTime(*req.EndDate)
		if err != nil {
			response.BadRequest(c, "invalid end_date")
			return
		}
		endDate = &t
	}
	if req.RegistrationDeadline != nil {
		t, err := parseTime(*req.RegistrationDeadline)
		if err != nil {
			response.BadRequest(c, "invalid registration_deadline")
			return
		}
		deadline = &t
	}

	p := &models.Program{
		Title:                req.Title,
		TitleNe:              req.TitleNe,
		Description:          req.Description,
		DescriptionNe:        req.DescriptionNe,
		StartDate:            startDate,
		EndDate:              endDate,
		Location:             req.Location,
		LocationNe:           req.LocationNe,
		IsRegistrationOpen:   true,
		RegistrationDeadline: deadline,
		MaxParticipants:      req.MaxParticipants,
		ImageURL:             req.ImageURL,
		CreatedBy:            c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if req.IsRegistrationOpen != nil {
		p.IsRegistrationOpen = *req.IsRegistrationOpen
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to create program")
		return
	}
	response.Created(c, p)
}

// GetByID handles GET /programs/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid program id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load program")
		return
	}
	if p == nil {
		response.NotFound(c, "program not found")
		return
	}
	response.OK(c, p)
}

// List handles GET /programs (public). Query ?upcoming=1 excludes programs
// that already ended.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("upcoming") == "1")
	if err != nil {
		response.Internal(c, "failed to list programs")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /programs/:id (committee).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid program id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load program")
		return
	}
	if p == nil {
		response.NotFound(c, "program not found")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.TitleNe != nil {
		p.TitleNe = *req.TitleNe
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DescriptionNe != nil {
		p.DescriptionNe = *req.DescriptionNe
	}
	if req.StartDate != nil {
		t, err := parseTime(*req.StartDate)
		if err != nil {
			response.BadRequest(c, "invalid start_date")
			return
		}
		p.StartDate = t
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			p.EndDate = nil
		} else {
			t, err := parseTime(*req.EndDate)
			if err != nil {
				response.BadRequest(c, "invalid end_date")
				return
			}
			p.EndDate = &t
		}
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.LocationNe != nil {
		p.LocationNe = *req.LocationNe
	}
	if req.IsRegistrationOpen != nil {
		p.IsRegistrationOpen = *req.IsRegistrationOpen
	}
	if req.RegistrationDeadline != nil {
		if *req.RegistrationDeadline == "" {
			p.RegistrationDeadline = nil
		} else {
			t, err := parseTime(*req.RegistrationDeadline)
			if err != nil {
				response.BadRequest(c, "invalid registration_deadline")
				return
			}
			p.RegistrationDeadline = &t
		}
	}
	if req.MaxParticipants != nil {
		p.MaxParticipants = req.MaxParticipants
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}

	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to update program")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /programs/:id (committee).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid program id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load program")
		return
	}
	if p == nil {
		response.NotFound(c, "program not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete program")
		return
	}
	response.NoContent(c)
}
