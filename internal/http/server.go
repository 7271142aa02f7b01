package http

import (
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"identity-gateway/internal/auth"
	"identity-gateway/internal/config"
	"identity-gateway/internal/http/handler"
	"identity-gateway/internal/http/middleware"
	"identity-gateway/internal/rbac/presets"
	"identity-gateway/pkg/metrics"
	"identity-gateway/pkg/profiling"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	Authenticator  handler.Authenticator
	IdentityAdmin  handler.IdentityAdmin
	Permissions    handler.PermissionChecker
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
	Metrics        *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
		deps.Metrics.RegisterMetricsRoute(e)
	}
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	limits := deps.Config.RateLimit
	globalRateLimiter := middleware.NewGlobalRateLimiter(limits.RPS, limits.Burst)
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for credential endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter(limits.AuthRPS, limits.AuthBurst)

	authHandler := handler.NewAuthHandler(deps.Authenticator)
	identityHandler := handler.NewIdentityHandler(deps.IdentityAdmin, deps.Permissions)

	e.GET("/health", healthCheck)

	user := e.Group("/v2/user")
	user.POST("/register", authHandler.Register, strictRateLimiter.Middleware())
	user.POST("/login", authHandler.Login, strictRateLimiter.Middleware())

	// Per-identity limiting only after the provider has validated the session
	identityRateLimiter := middleware.NewRateLimiter(limits.RPS, limits.Burst)
	requireSession := deps.AuthMiddleware.RequireSession()
	perIdentity := identityRateLimiter.IdentityMiddleware()

	user.POST("/logout", authHandler.Logout, requireSession, perIdentity)
	user.GET("/roles", identityHandler.Roles, requireSession, perIdentity)
	user.GET("/permissions/:resource", identityHandler.CheckPermission, requireSession, perIdentity)
	user.PUT("/userrole", identityHandler.UpdateUserRole, requireSession, perIdentity, deps.RBACMiddleware.RequirePermission(presets.ResourceUserRole))
	user.DELETE("/identities/:id", identityHandler.DeleteIdentity, requireSession, perIdentity, deps.RBACMiddleware.RequirePermission(presets.ResourceDeleteIdentity))

	if deps.Config.Server.EnableProfiling {
		profiling.RegisterRoutes(e, requireSession, perIdentity, deps.RBACMiddleware.RequirePermission(presets.ResourceProfiling))
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
