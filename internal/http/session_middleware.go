package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docflow/internal/service"
)

const sessionManagerKey = "session_manager"

// SessionOptions configura la sesion basada en cookies.
type SessionOptions struct {
	EntryRoute   string
	TTL          time.Duration
	CookieSecure bool
}

// redirectNavigator traduce la navegacion del SessionManager a un 302.
type redirectNavigator struct {
	c *gin.Context
}

func (n redirectNavigator) Navigate(route string) {
	if n.c.Writer.Written() {
		return
	}
	n.c.Redirect(http.StatusFound, route)
}

// SessionMiddleware arma un SessionManager por request sobre las cookies del
// navegador y lo deja en el contexto.
func SessionMiddleware(logger *zap.Logger, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := newCookieSessionStore(c, opts.CookieSecure)
		m := service.NewSessionManager(logger, store, redirectNavigator{c: c}, opts.EntryRoute, opts.TTL)
		c.Set(sessionManagerKey, m)
		c.Next()
	}
}

// SessionGate deja pasar solo sesiones validas. Cualquier otro caso termina
// en Logout: se borran las cookies y se redirige a la ruta de entrada.
func SessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := GetSessionManager(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not configured"})
			return
		}
		if m.Check() != service.SessionAllowed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionManager obtiene el SessionManager del request.
func GetSessionManager(c *gin.Context) (*service.SessionManager, bool) {
	val, ok := c.Get(sessionManagerKey)
	if !ok {
		return nil, false
	}
	m, ok := val.(*service.SessionManager)
	return m, ok
}
