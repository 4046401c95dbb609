package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/stockhub/auth-service/docs" // swagger spec
	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/api/middleware"
	"github.com/stockhub/auth-service/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Log          zerolog.Logger
	AuthService  ports.AuthService
	Gate         ports.Gate
	LoginLimiter ports.RateLimiter // nil disables login rate limiting
	HealthChecks map[string]handler.Check

	// TrustProxyHeaders takes the client IP from X-Forwarded-For when the
	// peer is a loopback or private address. Otherwise the socket address
	// is used and forwarding headers are ignored.
	TrustProxyHeaders bool

	// Registry receives the HTTP request metrics. A private registry is
	// created when nil; /metrics always includes the default registry too.
	Registry *prometheus.Registry
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v, err := handler.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("build validator: %w", err)
	}
	e.Validator = v
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	e.IPExtractor = echo.ExtractIPDirect()
	if d.TrustProxyHeaders {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestContextLogger(d.Log))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth_http",
		Registerer: reg,
	}))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	requireAuth := middleware.Auth(d.Gate)

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	if d.LoginLimiter != nil {
		auth.POST("/login", authHandler.Login, middleware.RateLimitLogin(d.LoginLimiter, d.Log))
	} else {
		auth.POST("/login", authHandler.Login)
	}
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
