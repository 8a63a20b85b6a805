package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/founderbridge/backend/internal/config"
	"github.com/founderbridge/backend/internal/http/handlers"
	"github.com/founderbridge/backend/internal/http/middleware"
)

// Handlers — все HTTP обработчики приложения.
type Handlers struct {
	Health       *handlers.HealthHandler
	Intent       *handlers.IntentHandler
	Auth         *handlers.AuthHandler
	Signup       *handlers.SignupHandler
	Dashboard    *handlers.DashboardHandler
	Listing      *handlers.ListingHandler
	Application  *handlers.ApplicationHandler
	Media        *handlers.MediaHandler
	WS           *handlers.WSHandler
	MediaRoot    string
	RateLimiter  limiter.Store
	AccessTokens middleware.AccessParser
}

func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if h.MediaRoot != "" {
		r.Static("/media", h.MediaRoot)
	}

	api := r.Group("/api")
	api.Use(middleware.BrowserSession(cfg.Env == "production"))

	api.GET("/ws", h.WS.Handle)

	api.GET("/intent", h.Intent.Get)
	api.POST("/intent", h.Intent.Set)
	api.DELETE("/intent", h.Intent.Clear)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(h.RateLimiter, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.GET("/github", h.Auth.BeginGitHub)
		authGroup.GET("/github/callback", h.Auth.Callback)
		authGroup.GET("/redirect-result", h.Auth.RedirectResult)
		authGroup.POST("/signout", h.Auth.SignOut)
	}
	api.GET("/auth/state", h.Auth.State)

	api.POST("/signup/candidate", h.Signup.Candidate)
	api.POST("/signup/recruiter", h.Signup.Recruiter)

	// Публичные маршруты
	api.GET("/ideas/active", h.Listing.Active)
	api.GET("/ideas/:id", middleware.DocIDValidator("id"), h.Listing.Get)
	api.GET("/jobs", h.Listing.Jobs)

	// Дашборды: uid из состояния навигации, без него сервис сам сообщает об ошибке.
	nav := api.Group("/")
	nav.Use(middleware.NavigationState(h.AccessTokens))
	{
		nav.GET("/dashboard/developer", h.Dashboard.Developer)
		nav.GET("/dashboard/recruiter", h.Dashboard.Recruiter)
		nav.POST("/dashboard/developer/saved/:id", middleware.DocIDValidator("id"), h.Dashboard.ToggleSaved)
		nav.PUT("/profile/developer", h.Dashboard.UpdateDeveloperProfile)
		nav.PUT("/profile/recruiter", h.Dashboard.UpdateRecruiterProfile)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(h.AccessTokens))
	{
		protected.POST("/ideas", h.Listing.Create)
		protected.PUT("/ideas/:id/status", middleware.DocIDValidator("id"), h.Listing.SetStatus)

		protected.POST("/applications", h.Application.Submit)
		protected.GET("/applications/mine", h.Application.Mine)
		protected.PUT("/applications/:id/status", middleware.DocIDValidator("id"), h.Application.Review)

		protected.POST("/profile/photo", h.Media.UploadProfilePhoto)
	}

	return r
}
