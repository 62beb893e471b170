package events

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

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title                string  `json:"title" binding:"required"`
	TitleNe              string  `json:"title_ne"`
	Description          string  `json:"description"`
	DescriptionNe        string  `json:"description_ne"`
	EventDate            string  `json:"event_date" binding:"required"`
	Location             string  `json:"location"`
	LocationNe           string  `json:"location_ne"`
	IsRegistrationOpen   *bool   `json:"is_registration_open"`
	RegistrationDeadline *string `json:"registration_deadline"`
	MaxAttendees         *int    `json:"max_attendees"`
	ImageURL             string  `json:"image_url"`
}

// UpdateRequest is the body for PATCH /events/:id. Absent fields keep their
// current values.
type UpdateRequest struct {
	Title                *string `json:"title"`
	TitleNe              *string `json:"title_ne"`
	Description          *string `json:"description"`
	DescriptionNe        *string `json:"description_ne"`
	EventDate            *string `json:"event_date"`
	Location             *string `json:"location"`
	LocationNe           *string `json:"location_ne"`
	IsRegistrationOpen   *bool   `json:"is_registration_open"`
	RegistrationDeadline *string `json:"registration_deadline"`
	MaxAttendees         *int    `json:"max_attendees"`
	ImageURL             *string `json:"image_url"`
}

// Handler handles event HTTP endpoints. List and GetByID are public; the
// rest require the committee role.
type Handler struct {
	repo *Repository
}

// NewHandler creates an event handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /events (committee).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	eventDate, err := parseTime(req.EventDate)
	if err != nil {
		response.BadRequest(c, "invalid event_date")
		return
	}
	var deadline *time.Time
	if req.RegistrationDeadline != nil {
		t, err := parseTime(*req.RegistrationDeadline)
		if err != nil {
			response.BadRequest(c, "invalid registration_deadline")
			return
		}
		deadline = &t
	}

	e := &models.Event{
		Title:                req.Title,
		TitleNe:              req.TitleNe,
		Description:          req.Description,
		DescriptionNe:        req.DescriptionNe,
		EventDate:            eventDate,
		Location:             req.Location,
		LocationNe:           req.LocationNe,
		IsRegistrationOpen:   true,
		RegistrationDeadline: deadline,
		MaxAttendees:         req.MaxAttendees,
		ImageURL:             req.ImageURL,
		CreatedBy:            c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if req.IsRegistrationOpen != nil {
		e.IsRegistrationOpen = *req.IsRegistrationOpen
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// GetByID handles GET /events/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// List handles GET /events (public). Query ?upcoming=1 excludes past events.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("upcoming") == "1")
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /events/:id (committee).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.TitleNe != nil {
		e.TitleNe = *req.TitleNe
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.DescriptionNe != nil {
		e.DescriptionNe = *req.DescriptionNe
	}
	if req.EventDate != nil {
		t, err := parseTime(*req.EventDate)
		if err != nil {
			response.BadRequest(c, "invalid event_date")
			return
		}
		e.EventDate = t
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.LocationNe != nil {
		e.LocationNe = *req.LocationNe
	}
	if req.IsRegistrationOpen != nil {
		e.IsRegistrationOpen = *req.IsRegistrationOpen
	}
	if req.RegistrationDeadline != nil {
		if *req.RegistrationDeadline == "" {
			e.RegistrationDeadline = nil
		} else {
			t, err := parseTime(*req.RegistrationDeadline)
			if err != nil {
				response.BadRequest(c, "invalid registration_deadline")
				return
			}
			e.RegistrationDeadline = &t
		}
	}
	if req.MaxAttendees != nil {
		e.MaxAttendees = req.MaxAttendees
	}
	if req.ImageURL != nil {
		e.ImageURL = *req.ImageURL
	}

	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /events/:id (committee).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}
