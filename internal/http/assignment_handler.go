package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/domain"
)

// ListAssignments maneja GET /assignments?q=, ordenadas por fecha de entrega.
func (h *Handlers) ListAssignments(c *gin.Context) {
	ranked, err := h.listingFor(c).Assignments(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondBackendError(c, err, "list assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": ranked})
}

// CreateAssignment maneja POST /assignments.
func (h *Handlers) CreateAssignment(c *gin.Context) {
	var req domain.AssignmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create assignment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.clientFor(c).CreateAssignment(c.Request.Context(), req); err != nil {
		h.respondBackendError(c, err, "create assignment")
		return
	}
	c.Status(http.StatusCreated)
}

// ListUsers maneja GET /users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.clientFor(c).ListUsers(c.Request.Context())
	if err != nil {
		h.respondBackendError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
