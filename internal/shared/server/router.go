package server

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/config"
	"interviewhub/internal/shared/metrics"
	"interviewhub/internal/shared/server/middleware"
	"interviewhub/internal/shared/server/respond"
	"interviewhub/internal/shared/storage/db"
)

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps are the collaborators the HTTP surface is assembled from.
type RouterDeps struct {
	Config  config.Config
	DB      *sql.DB
	Tokens  *auth.Tokens
	Limiter middleware.Limiter
	// Handlers are registered under /api/v1 in order.
	Handlers []RouteRegistrar
}

const (
	rateGroupAuth   = "AUTH"
	rateGroupWrite  = "WRITE"
	rateGroupUpload = "UPLOAD"
)

var rateRules = map[string]middleware.RateLimitRule{
	rateGroupAuth:   {Rate: 0.2, Burst: 10},
	rateGroupWrite:  {Rate: 1, Burst: 30},
	rateGroupUpload: {Rate: 0.1, Burst: 5},
	"DEFAULT":       {Rate: 5, Burst: 100},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Tokens),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateRules,
			GroupFor: rateGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", health(deps.DB))
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func health(database *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database == nil {
			respond.OK(c, gin.H{"status": "OK", "database": "memory"})
			return
		}
		if err := db.Ping(c.Request.Context(), database, 0); err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "Database unreachable", nil)
			return
		}
		respond.OK(c, gin.H{"status": "OK", "database": "connected"})
	}
}

func rateGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/v1/auth/"):
		return rateGroupAuth
	case c.Request.Method == http.MethodPost && (path == "/api/v1/applications" || path == "/api/v1/resumes/presign"):
		return rateGroupUpload
	case c.Request.Method != http.MethodGet:
		return rateGroupWrite
	default:
		return ""
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
