package notices

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/middleware"
	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// CreateRequest is the body for POST /notices. When publish is set, the
// notice goes live immediately.
type CreateRequest struct {
	Title         string `json:"title" binding:"required"`
	TitleNe       string `json:"title_ne"`
	Body          string `json:"body"`
	BodyNe        string `json:"body_ne"`
	AttachmentURL string `json:"attachment_url"`
	Publish       bool   `json:"publish"`
}

// UpdateRequest is the body for PATCH /notices/:id.
type UpdateRequest struct {
	Title         *string `json:"title"`
	TitleNe       *string `json:"title_ne"`
	Body          *string `json:"body"`
	BodyNe        *string `json:"body_ne"`
	AttachmentURL *string `json:"attachment_url"`
	Publish       *bool   `json:"publish"`
}

// Handler handles notice HTTP endpoints. List and GetByID are public and
// only show published notices; committee routes see drafts too.
type Handler struct {
	repo *Repository
}

// NewHandler creates a notice handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /notices (committee).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	n := &models.Notice{
		Title:         req.Title,
		TitleNe:       req.TitleNe,
		Body:          req.Body,
		BodyNe:        req.BodyNe,
		AttachmentURL: req.AttachmentURL,
		CreatedBy:     c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if req.Publish {
		now := time.Now()
		n.PublishedAt = &now
	}
	if err := h.repo.Create(c.Request.Context(), n); err != nil {
		response.Internal(c, "failed to create notice")
		return
	}
	response.Created(c, n)
}

// GetByID handles GET /notices/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}
	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load notice")
		return
	}
	if n == nil {
		response.NotFound(c, "notice not found")
		return
	}
	response.OK(c, n)
}

// List handles GET /notices (public, published only) and the committee
// listing with ?all=1.
func (h *Handler) List(c *gin.Context) {
	publishedOnly := c.Query("all") != "1"
	list, err := h.repo.List(c.Request.Context(), publishedOnly)
	if err != nil {
		response.Internal(c, "failed to list notices")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /notices/:id (committee).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}
	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load notice")
		return
	}
	if n == nil {
		response.NotFound(c, "notice not found")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.TitleNe != nil {
		n.TitleNe = *req.TitleNe
	}
	if req.Body != nil {
		n.Body = *req.Body
	}
	if req.BodyNe != nil {
		n.BodyNe = *req.BodyNe
	}
	if req.AttachmentURL != nil {
		n.AttachmentURL = *req.AttachmentURL
	}
	if req.Publish != nil {
		if *req.Publish {
			if n.PublishedAt == nil {
				now := time.Now()
				n.PublishedAt = &now
			}
		} else {
			n.PublishedAt = nil
		}
	}

	if err := h.repo.Update(c.Request.Context(), n); err != nil {
		response.Internal(c, "failed to update notice")
		return
	}
	response.OK(c, n)
}

// Delete handles DELETE /notices/:id (committee).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notice id")
		return
	}
	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load notice")
		return
	}
	if n == nil {
		response.NotFound(c, "notice not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete notice")
		return
	}
	response.NoContent(c)
}
