package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/shared/middleware"
	"newsroom-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Chỉ tin forwarding headers từ proxy đã cấu hình, còn lại dùng RemoteAddr
	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("proxies", c.Config.App.TrustedProxies).Msg("Invalid TRUSTED_PROXIES, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.ClientIPMiddleware(),
		middleware.Session(c.JWTManager),
		middleware.APICredentials(),
	)

	router.GET("/health", healthCheckHandler(c))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupArticleRoutes(v1, c)
		setupPollRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users", middleware.RequireSession())
	{
		users.GET("/me", c.UserHandler.GetMe)
	}
}

// ========================================
// ARTICLE ROUTES
// ========================================
// Quyền đọc/ghi do CollectionPolicy quyết định trong service (session hoặc API gate)
func setupArticleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	articles := v1.Group("/articles")
	{
		articles.GET("", c.ArticleHandler.ListArticles)
		articles.GET("/slug/:slug", c.ArticleHandler.GetArticleBySlug)
		articles.GET("/:id", c.ArticleHandler.GetArticle)
		articles.GET("/:id/versions", c.ArticleHandler.ListVersions)
		articles.GET("/:id/audit.xlsx", middleware.RequireSession(), c.ArticleHandler.ExportAudit)

		articles.POST("", middleware.RequireSession(), c.ArticleHandler.CreateArticle)
		articles.PATCH("/:id", middleware.RequireSession(), c.ArticleHandler.UpdateArticle)
		articles.DELETE("/:id", middleware.RequireSession(), c.ArticleHandler.DeleteArticle)
		articles.POST("/:id/rollback", middleware.RequireSession(), c.ArticleHandler.Rollback)
	}
}

// ========================================
// POLL ROUTES
// ========================================
// Vote mở cho anonymous qua API gate, rate limit theo voter key
func setupPollRoutes(v1 *gin.RouterGroup, c *container.Container) {
	polls := v1.Group("/polls")
	{
		polls.GET("/:id", c.PollHandler.GetPoll)
		polls.GET("/:id/results", c.PollHandler.Results)
		polls.POST("/:id/votes", c.PollHandler.Vote)

		polls.POST("", middleware.RequireSession(), c.PollHandler.CreatePoll)
		polls.DELETE("/:id", middleware.RequireSession(), c.PollHandler.DeletePoll)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin", middleware.RequireSession())
	{
		admin.POST("/articles/sweep", middleware.RequireRole(access.IsStaff), c.ArticleHandler.SweepScheduled)
		admin.POST("/users", middleware.RequireRole(access.IsAdmin), c.UserHandler.CreateUser)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"storage":   appCtx.Config.Storage.Driver,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database (memory driver: không có DB)
		dbStatus := "disabled"
		if appCtx.DB != nil {
			dbStatus = "ok"
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			} else {
				health["pool"] = appCtx.DB.Stats()
			}
		}

		// Check redis
		redisStatus := "disabled"
		if appCtx.Redis != nil {
			redisStatus = "ok"
			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
