package press

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// CreateRequest is the body for POST /press-releases. When release is set,
// the release date is stamped immediately.
type CreateRequest struct {
	Title         string `json:"title" binding:"required"`
	TitleNe       string `json:"title_ne"`
	Body          string `json:"body"`
	BodyNe        string `json:"body_ne"`
	AttachmentURL string `json:"attachment_url"`
	Release       bool   `json:"release"`
}

// UpdateRequest is the body for PATCH /press-releases/:id.
type UpdateRequest struct {
	Title         *string `json:"title"`
	TitleNe       *string `json:"title_ne"`
	Body          *string `json:"body"`
	BodyNe        *string `json:"body_ne"`
	AttachmentURL *string `json:"attachment_url"`
	Release       *bool   `json:"release"`
}

// Handler handles press release HTTP endpoints. List and GetByID are public
// and only show released items; committee routes see drafts too.
type Handler struct {
	repo *Repository
}

// NewHandler creates a press release handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /press-releases (committee).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.PressRelease{
		Title:         req.Title,
		TitleNe:       req.TitleNe,
		Body:          req.Body,
		BodyNe:        req.BodyNe,
		AttachmentURL: req.AttachmentURL,
		CreatedBy:     c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if req.Release {
		now := time.Now()
		p.ReleasedOn = &now
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to create press release")
		return
	}
	response.Created(c, p)
}

// GetByID handles GET /press-releases/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid press release id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load press release")
		return
	}
	if p == nil {
		response.NotFound(c, "press release not found")
		return
	}
	response.OK(c, p)
}

// List handles GET /press-releases (public, released only) and the committee
// listing with ?all=1.
func (h *Handler) List(c *gin.Context) {
	releasedOnly := c.Query("all") != "1"
	list, err := h.repo.List(c.Request.Context(), releasedOnly)
	if err != nil {
		response.Internal(c, "failed to list press releases")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /press-releases/:id (committee).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid press release id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load press release")
		return
	}
	if p == nil {
		response.NotFound(c, "press release not found")
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
	if req.Body != nil {
		p.Body = *req.Body
	}
	if req.BodyNe != nil {
		p.BodyNe = *req.BodyNe
	}
	if req.AttachmentURL != nil {
		p.AttachmentURL = *req.AttachmentURL
	}
	if req.Release != nil {
		if *req.Release {
			if p.ReleasedOn == nil {
				now := time.Now()
				p.ReleasedOn = &now
			}
		} else {
			p.ReleasedOn = nil
		}
	}

	if err := h.repo.Update(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to update press release")
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /press-releases/:id (committee).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid press release id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load press release")
		return
	}
	if p == nil {
		response.NotFound(c, "press release not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete press release")
		return
	}
	response.NoContent(c)
}
