package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/handler"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Paper        *handler.PaperHandler
	Attempt      *handler.AttemptHandler
	Subscription *handler.SubscriptionHandler
	TestWS       *handler.TestWSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve question audio statically with aggressive caching (1 year);
	// clips are immutable once published.
	audioGroup := router.Group("/audio")
	audioGroup.Use(middleware.CacheControl(31536000))
	{
		audioGroup.Static("/", cfg.AudioDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. User Group (JWT) ───────────────────────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(middleware.RequireUserJWT(authService))
	{
		userAPI.GET("/papers", handlers.Paper.List)
		userAPI.GET("/papers/:id", handlers.Paper.Get)
		userAPI.GET("/papers/:id/payload", handlers.Paper.GetPayload)

		userAPI.GET("/attempts", handlers.Attempt.List)
		userAPI.GET("/attempts/stats", handlers.Attempt.Stats)

		userAPI.GET("/subscription", handlers.Subscription.Get)
		userAPI.POST("/subscription", handlers.Subscription.Create)
		userAPI.POST("/subscription/cancel", handlers.Subscription.Cancel)
		userAPI.POST("/subscription/switch", handlers.Subscription.SwitchPlan)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/tests/:paper_id", handlers.TestWS.Stream)
	}

	// ─── 4. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/papers", handlers.Paper.Create)
		adminAPI.PUT("/papers/:id", handlers.Paper.Update)
		adminAPI.DELETE("/papers/:id", handlers.Paper.Delete)
		adminAPI.POST("/papers/:id/questions", handlers.Paper.AddQuestion)
		adminAPI.PUT("/papers/:id/questions", handlers.Paper.ReplaceQuestions)
		adminAPI.POST("/cache/prewarm", handlers.Paper.Prewarm)
	}

	return router
}
