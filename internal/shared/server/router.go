package server

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"workvouch/internal/overlap"
	"workvouch/internal/services/health"
	"workvouch/internal/shared/auth"
	"workvouch/internal/shared/config"
	"workvouch/internal/shared/metrics"
	"workvouch/internal/shared/server/middleware"
	"workvouch/internal/simulation"
	"workvouch/internal/usage"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
	uploadGroup = "UPLOAD"
)

// RouterDeps defines dependencies required to build the router.
type RouterDeps struct {
	Config            config.Config
	Verifier          *auth.Verifier
	Health            *health.Service
	UsageHandler      *usage.Handler
	SimulationHandler *simulation.Handler
	OverlapHandler    *overlap.Handler
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(middleware.AuthConfig{
			Verifier:        deps.Verifier,
			AllowDevHeaders: cfg.IsDevLike(),
			PublicPaths:     []string{healthPath, metricsPath},
		}),
		middleware.RateLimit(rateLimitConfig(cfg, deps.RateLimiter)),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		api.GET("/health", deps.Health.Handler)
	} else {
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}
	registerMeRoutes(api)
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if cfg.IsDevLike() {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}
	if deps.SimulationHandler != nil {
		deps.SimulationHandler.RegisterRoutes(api)
	}
	if deps.OverlapHandler != nil {
		deps.OverlapHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig applies the configured rate to every caller. Résumé uploads
// get a fifth of it.
func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}
	return middleware.RateLimitConfig{
		Limiter: limiter,
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":   {Rate: rps, Burst: burst},
			uploadGroup: {Rate: rps / 5, Burst: int(math.Max(1, float64(burst/4)))},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/employees/:id/resume/upload" {
				return uploadGroup
			}
			return ""
		},
	}
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
