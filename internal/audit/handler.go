package audit

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gandaki-ict/backend/pkg/response"
)

// Handler exposes the audit trail to committee members.
type Handler struct {
	repo *Repository
}

// NewHandler creates an audit handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListRecent handles GET /audit-logs (committee). Query ?limit=N caps the
// number of entries returned.
func (h *Handler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to list audit logs")
		return
	}
	response.OK(c, list)
}
