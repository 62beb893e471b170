package committee

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
	"github.com/gandaki-ict/backend/pkg/response"
)

// CreateRequest is the body for POST /committee-members.
type CreateRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	FullNameNe    string `json:"full_name_ne"`
	Designation   string `json:"designation"`
	DesignationNe string `json:"designation_ne"`
	PhotoURL      string `json:"photo_url"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DisplayOrder  int    `json:"display_order"`
}

// UpdateRequest is the body for PATCH /committee-members/:id.
type UpdateRequest struct {
	FullName      *string `json:"full_name"`
	FullNameNe    *string `json:"full_name_ne"`
	Designation   *string `json:"designation"`
	DesignationNe *string `json:"designation_ne"`
	PhotoURL      *string `json:"photo_url"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	DisplayOrder  *int    `json:"display_order"`
}

// Handler handles committee member HTTP endpoints. Reads are public; writes
// require the committee role.
type Handler struct {
	repo *Repository
}

// NewHandler creates a committee member handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /committee-members (committee).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m := &models.CommitteeMember{
		FullName:      req.FullName,
		FullNameNe:    req.FullNameNe,
		Designation:   req.Designation,
		DesignationNe: req.DesignationNe,
		PhotoURL:      req.PhotoURL,
		Email:         req.Email,
		Phone:         req.Phone,
		DisplayOrder:  req.DisplayOrder,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		response.Internal(c, "failed to create committee member")
		return
	}
	response.Created(c, m)
}

// GetByID handles GET /committee-members/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid committee member id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load committee member")
		return
	}
	if m == nil {
		response.NotFound(c, "committee member not found")
		return
	}
	response.OK(c, m)
}

// List handles GET /committee-members (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list committee members")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /committee-members/:id (committee).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid committee member id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load committee member")
		return
	}
	if m == nil {
		response.NotFound(c, "committee member not found")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.FullName != nil {
		m.FullName = *req.FullName
	}
	if req.FullNameNe != nil {
		m.FullNameNe = *req.FullNameNe
	}
	if req.Designation != nil {
		m.Designation = *req.Designation
	}
	if req.DesignationNe != nil {
		m.DesignationNe = *req.DesignationNe
	}
	if req.PhotoURL != nil {
		m.PhotoURL = *req.PhotoURL
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.DisplayOrder != nil {
		m.DisplayOrder = *req.DisplayOrder
	}

	if err := h.repo.Update(c.Request.Context(), m); err != nil {
		response.Internal(c, "failed to update committee member")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /committee-members/:id (committee).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid committee member id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load committee member")
		return
	}
	if m == nil {
		response.NotFound(c, "committee member not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete committee member")
		return
	}
	response.NoContent(c)
}
