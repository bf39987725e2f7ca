package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/middleware"
)

// Options carries the HTTP-facing configuration.
type Options struct {
	AuthRequired   bool
	CookieName     string
	AllowedOrigins []string
}

// Handlers groups the resource handlers mounted under /api.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Cattle  *handlers.CattleHandler
	Milk    *handlers.MilkHandler
	Health  *handlers.HealthHandler
	Feed    *handlers.FeedHandler
	Users   *handlers.UserHandler
	Reports *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(opts Options, h Handlers, sessions middleware.Resolver, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api", middleware.Session(sessions, opts.CookieName, logger.Named("session")))
	api.POST("/auth/login", h.Auth.Login)

	private := api.Group("", middleware.RequireAuth(opts.AuthRequired))
	private.POST("/auth/logout", h.Auth.Logout)
	private.GET("/auth/me", h.Auth.Me)

	cattle := private.Group("/cattle")
	cattle.GET("", h.Cattle.List)
	cattle.POST("", h.Cattle.Create)
	cattle.GET("/:id", h.Cattle.Get)
	cattle.PUT("/:id", h.Cattle.Update)
	cattle.DELETE("/:id", h.Cattle.Delete)

	milk := private.Group("/milk")
	milk.GET("", h.Milk.List)
	milk.POST("", h.Milk.Create)
	milk.GET("/stats", h.Milk.Stats)

	health := private.Group("/health")
	health.GET("", h.Health.List)
	health.POST("", h.Health.Create)
	health.GET("/stats", h.Health.Stats)
	health.POST("/complete", h.Health.Complete)
	health.GET("/:id", h.Health.Get)
	health.PUT("/:id", h.Health.Update)
	health.DELETE("/:id", h.Health.Delete)

	feed := private.Group("/feed")
	feed.GET("", h.Feed.List)
	feed.POST("", h.Feed.Create)
	feed.GET("/stats", h.Feed.Stats)
	feed.GET("/usage", h.Feed.ListUsage)
	feed.POST("/usage", h.Feed.RecordUsage)
	feed.POST("/restock", h.Feed.Restock)
	feed.GET("/:id", h.Feed.Get)
	feed.PUT("/:id", h.Feed.Update)
	feed.DELETE("/:id", h.Feed.Delete)

	users := private.Group("/users", middleware.RequireRole(models.RoleAdmin))
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.PATCH("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	private.GET("/dashboard/stats", h.Reports.Dashboard)
	private.GET("/reports/export", h.Reports.Export)
	private.GET("/reports/daily-summaries", h.Reports.DailySummaries)

	logger.Info("router initialized", zap.Bool("auth_required", opts.AuthRequired))
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request completed", fields...)
	}
}
