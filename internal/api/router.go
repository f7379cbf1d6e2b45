package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/middleware"
	"github.com/ginternational/backoffice/internal/models"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	DB          DatabaseProbe // nil on the in-memory store
	Audit       domain.AuditQuerier
	Users       domain.UserService
	Principals  middleware.PrincipalLookup
	JWTSecret   []byte
	CORSOrigins []string
	Version     string
	AuditMode   string
}

// Router-level limits.
const (
	rateLimit = 50  // requests per second per IP
	rateBurst = 100 // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.RequestMetrics("/api/v1/health", "/api/v1/ready"))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.DB, log, deps.Version, deps.AuditMode)
	audit := NewAuditHandler(deps.Audit, log)
	users := NewUserHandler(deps.Users, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Everything else is restricted to active administrators.
	admin := api.Group("",
		middleware.AuthMiddleware(deps.JWTSecret, deps.Principals, log),
		middleware.RequireRole(models.RoleAdmin),
	)

	admin.GET("/auditLog", audit.Search)
	admin.GET("/auditLog/:id", audit.Get)

	admin.POST("/user", users.Create)
	admin.PATCH("/user/:id", users.Update)
	admin.DELETE("/user/:id", users.Delete)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
