package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/repository"
)

// Deps bundles everything the router needs from the composition root.
type Deps struct {
	Pool      *pgxpool.Pool
	JWTSecret string
	Chat      *ChatHandler
	Documents *DocumentsHandler
	Profile   *ProfileHandler
	Clients   *ClientsHandler
	Logger    *zap.Logger
}

// NewRouter builds the gin engine with the public health check and the
// authenticated API surface.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := repository.HealthCheck(ctx, deps.Pool, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", AuthMiddleware(deps.JWTSecret))
	{
		api.POST("/chat/turn", deps.Chat.HandleTurn)
		api.POST("/chat/upload", deps.Chat.HandleUpload)
		api.POST("/chat/refine", deps.Chat.HandleRefine)

		api.POST("/documents", deps.Documents.Create)
		api.GET("/documents", deps.Documents.List)
		api.GET("/documents/export", deps.Documents.ExportWorkbook)
		api.GET("/documents/:id", deps.Documents.Get)
		api.PATCH("/documents/:id/status", deps.Documents.UpdateStatus)
		api.DELETE("/documents/:id", deps.Documents.Delete)
		api.GET("/documents/:id/export", deps.Documents.Export)

		api.GET("/profile", deps.Profile.Get)
		api.PUT("/profile", deps.Profile.Upsert)

		api.GET("/clients", deps.Clients.List)
	}

	return r
}

// requestLogger tags each request with an ID, threads it through the request
// context for downstream log correlation, and logs the outcome.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Header("X-Request-ID", rid)

		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("req_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
