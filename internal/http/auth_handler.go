package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/backend"
	"docflow/internal/service"
)

// Entry maneja GET /, la ruta de entrada a la que redirige el logout.
func (h *Handlers) Entry(c *gin.Context) {
	authenticated := false
	if m, ok := GetSessionManager(c); ok {
		authenticated = m.IsAuthenticated()
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": authenticated,
		"login":         "POST /login",
	})
}

// Login maneja POST /login: pide un token a la API y lo guarda en cookies.
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m, ok := GetSessionManager(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not configured"})
		return
	}
	if h.limiter != nil && !h.limiter.Allow(req.Email+"|"+c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	res, err := h.client.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondBackendError(c, err, "login")
		return
	}

	expiry := service.ResolveExpiry(res.Token, res.ExpiresAt, h.now(), h.ttl)
	if err := m.Renew(res.Token, expiry); err != nil {
		h.logger.Error("renew session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "expires_at": expiry.UTC()})
}

// Logout maneja POST /logout.
func (h *Handlers) Logout(c *gin.Context) {
	m, ok := GetSessionManager(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not configured"})
		return
	}
	m.Logout()
}

// Session maneja GET /session.
func (h *Handlers) Session(c *gin.Context) {
	m, _ := GetSessionManager(c)
	s := m.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"has_token":     s.HasToken(),
		"expires_at":    s.ExpiresAt,
	})
}
