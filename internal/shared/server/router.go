package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careermatch-backend/internal/account"
	"careermatch-backend/internal/analyses"
	googleauth "careermatch-backend/internal/auth"
	"careermatch-backend/internal/documents"
	"careermatch-backend/internal/postings"
	"careermatch-backend/internal/services/health"
	"careermatch-backend/internal/shared/config"
	"careermatch-backend/internal/shared/metrics"
	"careermatch-backend/internal/shared/server/middleware"
	"careermatch-backend/internal/shared/server/respond"
	"careermatch-backend/internal/uploads"
	"careermatch-backend/internal/usage"
	"careermatch-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts. Nil handlers are
// skipped so tests and the worker can wire partial routers.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	AccountHandler  *account.Handler
	AnalysisHandler *analyses.Handler
	DocumentHandler *documents.Handler
	PostingHandler  *postings.Handler
	UsageHandler    *usage.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
	UploadsEnabled  bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"WRITE": {Rate: 5, Burst: 10},
			},
			GroupFor: func(c *gin.Context) string {
				switch c.Request.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
					return "WRITE"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.PostingHandler != nil {
		deps.PostingHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.UploadsEnabled {
		uploads.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
