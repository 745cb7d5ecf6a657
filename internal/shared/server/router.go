package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/fitresults"
	"fit-backend/internal/resumes"
	"fit-backend/internal/services/health"
	"fit-backend/internal/shared/auth"
	"fit-backend/internal/shared/config"
	"fit-backend/internal/shared/metrics"
	"fit-backend/internal/shared/server/middleware"
	"fit-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and collaborators the router needs.
type RouterDeps struct {
	Config        config.Config
	Health        *health.Service
	Issuer        *auth.Issuer
	Limiter       *middleware.RateLimiter
	FitHandler    *fitresults.Handler
	ResumeHandler *resumes.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil, false)
	}
	api.GET("/health", func(c *gin.Context) {
		st := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, st)
	})

	authed := api.Group("")
	authed.Use(middleware.Auth(middleware.AuthOptions{
		Issuer:     deps.Issuer,
		AllowGuest: deps.Config.IsDevLike(),
	}))
	registerMeRoutes(authed)

	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.FitHandler != nil {
		limiter := deps.Limiter
		if limiter == nil {
			limiter = middleware.NewRateLimiter(nil)
		}
		rule := middleware.PerMinute(deps.Config.AnalyzeRatePerMinute)
		deps.FitHandler.RegisterRoutes(authed, middleware.RateLimit(limiter, "analyze", rule))
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
