package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas del gateway.
func NewRouter(logger *zap.Logger, h *Handlers, opts SessionOptions) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery, JSON y sesion.
	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		jsonContentTypeMiddleware(),
		SessionMiddleware(logger, opts),
	)

	entry := opts.EntryRoute
	if strings.TrimSpace(entry) == "" {
		entry = "/"
	}
	r.GET(entry, h.Entry)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	protected := r.Group("")
	protected.Use(SessionGate())

	protected.GET("/session", h.Session)

	docs := protected.Group("/documents")
	docs.GET("", h.ListDocuments)
	docs.POST("", h.CreateDocument)
	docs.GET("/:id", h.GetDocument)
	docs.PUT("/:id", h.UpdateDocument)
	docs.GET("/:id/versions", h.ListDocumentVersions)

	procs := protected.Group("/processes")
	procs.GET("", h.ListProcesses)
	procs.POST("", h.CreateProcess)
	procs.GET("/:id", h.GetProcess)
	procs.PUT("/:id", h.UpdateProcess)
	procs.GET("/:id/documents", h.ListProcessDocuments)

	protected.GET("/assignments", h.ListAssignments)
	protected.POST("/assignments", h.CreateAssignment)
	protected.GET("/users", h.ListUsers)

	return r
}

// requestIDMiddleware reutiliza X-Request-ID si viene, o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
