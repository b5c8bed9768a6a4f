package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/backend"
	"docflow/internal/service"
)

// Handlers mantiene dependencias para los endpoints HTTP del gateway.
type Handlers struct {
	logger  *zap.Logger
	client  *backend.Client
	listing *service.ListingService
	limiter service.LoginLimiter
	ttl     time.Duration
	now     func() time.Time
}

// NewHandlers crea una instancia de Handlers con las dependencias necesarias.
func NewHandlers(
	logger *zap.Logger,
	client *backend.Client,
	listing *service.ListingService,
	limiter service.LoginLimiter,
	sessionTTL time.Duration,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		logger:  logger,
		client:  client,
		listing: listing,
		limiter: limiter,
		ttl:     sessionTTL,
		now:     time.Now,
	}
}

// clientFor ata el cliente de la API a la sesion del request.
func (h *Handlers) clientFor(c *gin.Context) *backend.Client {
	m, ok := GetSessionManager(c)
	if !ok {
		return h.client.WithAuthorizer(nil)
	}
	return h.client.WithAuthorizer(m)
}

func (h *Handlers) listingFor(c *gin.Context) *service.ListingService {
	return h.listing.WithSource(h.clientFor(c))
}

// respondBackendError traduce errores de la API. Un 401 del upstream cierra
// la sesion igual que una expiracion local.
func (h *Handlers) respondBackendError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		h.logger.Info("upstream rejected session", zap.String("action", action))
		if m, ok := GetSessionManager(c); ok {
			m.Logout()
			c.Abort()
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, backend.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, backend.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not " + action})
	}
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
