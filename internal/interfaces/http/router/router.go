// Package router assembles the gin engine: ambient middleware, public
// routes, and the guarded administrative surface.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/internal/config"
	domainservice "github.com/ferrocrete/sitegate/internal/domain/service"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/handlers"
	"github.com/ferrocrete/sitegate/internal/interfaces/http/middleware"
	"github.com/ferrocrete/sitegate/pkg/constants"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// Handlers bundles the endpoint implementations the router wires up.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Lock    *handlers.LockHandler
	Content *handlers.ContentHandler
	Health  *handlers.HealthHandler
}

// Router owns the configured gin engine.
type Router struct {
	engine *gin.Engine
}

// New builds the engine. The admin guard stages are applied in order on
// the guarded groups; public content routes get only the public limiter.
func New(
	cfg *config.Config,
	h Handlers,
	guard *middleware.AdminGuard,
	limiter domainservice.RateLimiter,
	audit domainservice.AuditRecorder,
	metrics *monitoring.Metrics,
	tracer trace.Tracer,
	log logger.Logger,
) *Router {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.Observability(metrics, tracer),
		cors.New(corsConfig(cfg)),
	)

	engine.NoRoute(func(c *gin.Context) {
		dto.SendError(c, errors.ErrNotFound)
	})

	engine.GET("/health", h.Health.Live)
	engine.GET("/ready", h.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.Server.IsProduction() {
		pprof.Register(engine)
	}

	v1 := engine.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.PublicRateLimit(limiter, audit, metrics, log))
	{
		public.GET("/lock/status", h.Lock.Status)
		public.GET("/announcements", h.Content.ListAnnouncements)
		public.GET("/announcements/:id", h.Content.GetAnnouncement)
		public.GET("/projects", h.Content.ListProjects)
		public.GET("/projects/:id", h.Content.GetProject)
		public.GET("/media", h.Content.ListMedia)
	}

	// Same stage order as the admin group: the failure limiter runs
	// first, so IP-filter rejections charge the caller's budget too.
	auth := v1.Group("/auth")
	{
		auth.POST("/login",
			guard.FailureRateLimit(constants.SurfaceLogin), guard.IPAllowList(), h.Auth.Login)
		auth.GET("/verify",
			guard.FailureRateLimit(constants.SurfaceAdmin), guard.IPAllowList(), guard.Authenticate(), h.Auth.Verify)
		auth.POST("/refresh",
			guard.FailureRateLimit(constants.SurfaceAdmin), guard.IPAllowList(), guard.Authenticate(), h.Auth.Refresh)
	}

	admin := v1.Group("/admin")
	admin.Use(
		guard.FailureRateLimit(constants.SurfaceAdmin),
		guard.IPAllowList(),
		guard.Authenticate(),
	)
	{
		// Lock control is restricted to interactive admin roles on top of
		// the permission check; service tokens cannot reach it.
		adminRoles := guard.RequireRole(constants.RoleAdmin, constants.RoleSuperAdmin)
		admin.GET("/lock", adminRoles, guard.RequirePermissions(constants.PermSiteLock), h.Lock.Show)
		admin.PUT("/lock", adminRoles, guard.RequirePermissions(constants.PermSiteLock), h.Lock.Update)

		writes := guard.RequirePermissions(constants.PermContentWrite)
		admin.POST("/announcements", writes, h.Content.CreateAnnouncement)
		admin.PUT("/announcements/:id", writes, h.Content.UpdateAnnouncement)
		admin.DELETE("/announcements/:id", writes, h.Content.DeleteAnnouncement)
		admin.POST("/projects", writes, h.Content.CreateProject)
		admin.PUT("/projects/:id", writes, h.Content.UpdateProject)
		admin.DELETE("/projects/:id", writes, h.Content.DeleteProject)

		media := guard.RequirePermissions(constants.PermMediaManage)
		admin.POST("/media", media, h.Content.CreateMedia)
		admin.DELETE("/media/:id", media, h.Content.DeleteMedia)
	}

	return &Router{engine: engine}
}

// Engine exposes the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", constants.HeaderRequestID)
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	return corsCfg
}
