package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/domain"
)

// ListDocuments maneja GET /documents?q=. Devuelve la lista ordenada por urgencia.
func (h *Handlers) ListDocuments(c *gin.Context) {
	ranked, err := h.listingFor(c).Documents(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondBackendError(c, err, "list documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": ranked})
}

// GetDocument maneja GET /documents/:id.
func (h *Handlers) GetDocument(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	doc, err := h.clientFor(c).GetDocument(c.Request.Context(), id)
	if err != nil {
		h.respondBackendError(c, err, "get document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// CreateDocument maneja POST /documents.
func (h *Handlers) CreateDocument(c *gin.Context) {
	var req domain.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create document request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	doc, err := h.clientFor(c).CreateDocument(c.Request.Context(), req)
	if err != nil {
		h.respondBackendError(c, err, "create document")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// UpdateDocument maneja PUT /documents/:id.
func (h *Handlers) UpdateDocument(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update document request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.clientFor(c).UpdateDocument(c.Request.Context(), id, req); err != nil {
		h.respondBackendError(c, err, "update document")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDocumentVersions maneja GET /documents/:id/versions.
func (h *Handlers) ListDocumentVersions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	versions, err := h.clientFor(c).ListVersions(c.Request.Context(), id)
	if err != nil {
		h.respondBackendError(c, err, "list versions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}
