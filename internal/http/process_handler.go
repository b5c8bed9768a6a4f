package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/domain"
)

// ListProcesses maneja GET /processes?q=.
func (h *Handlers) ListProcesses(c *gin.Context) {
	items, err := h.listingFor(c).Processes(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondBackendError(c, err, "list processes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"processes": items})
}

func (h *Handlers) GetProcess(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.clientFor(c).GetProcess(c.Request.Context(), id)
	if err != nil {
		h.respondBackendError(c, err, "get process")
		return
	}
	c.JSON(http.StatusOK, gin.H{"process": p})
}

func (h *Handlers) CreateProcess(c *gin.Context) {
	var req domain.ProcessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create process request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, err := h.clientFor(c).CreateProcess(c.Request.Context(), req)
	if err != nil {
		h.respondBackendError(c, err, "create process")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"process": p})
}

func (h *Handlers) UpdateProcess(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.ProcessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update process request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.clientFor(c).UpdateProcess(c.Request.Context(), id, req); err != nil {
		h.respondBackendError(c, err, "update process")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProcessDocuments maneja GET /processes/:id/documents.
func (h *Handlers) ListProcessDocuments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	links, err := h.clientFor(c).ListProcessDocuments(c.Request.Context(), id)
	if err != nil {
		h.respondBackendError(c, err, "list process documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": links})
}
