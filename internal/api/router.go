package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/bancasrd/bancas-api/internal/api/handler"
	"github.com/bancasrd/bancas-api/internal/api/middleware"
	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
	"github.com/bancasrd/bancas-api/internal/infrastructure/http/handlers"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth       ports.AuthService
	Identity   ports.IdentityResolver
	Bancas     ports.BancaService
	Vendedores ports.VendedorService
	Jugadas    ports.JugadaService
	Guard      ports.AccessGuard
	History    ports.EventHistory // optional

	// RateLimiter overrides the in-process limiter (e.g. the Redis store).
	RateLimiter  echomiddleware.RateLimiterStore
	HealthChecks map[string]handlers.Check
	Logger       zerolog.Logger
}

// Options are the HTTP settings taken from configuration.
type Options struct {
	CORSOrigins []string
	TrustProxy  bool
	RateWindow  time.Duration
	RateMax     int
	BodyLimit   string
	Docs        bool

	// MetricsRegisterer receives the HTTP metrics; nil means the default
	// registry. Each Echo instance needs its own.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	if opts.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(opts.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(opts.BodyLimit)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bancas",
		Skipper:    isInfraPath,
		Registerer: opts.MetricsRegisterer,
	}))
	e.Use(rateLimiter(deps.RateLimiter, opts))

	// --- Infrastructure endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if opts.Docs {
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	authn := middleware.Auth(deps.Identity)
	anyRole := middleware.RBAC(domain.PolicyAnyRole)
	adminOrSupervisor := middleware.RBAC(domain.PolicyAdminOrSupervisor)
	adminOnly := middleware.RBAC(domain.PolicyAdminOnly)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authn, anyRole)
	auth.POST("/logout", authHandler.Logout, authn, anyRole)

	// --- Bancas ---
	bancaHandler := handler.NewBancaHandler(deps.Bancas)
	bancas := e.Group("/bancas", authn)
	bancas.GET("", bancaHandler.List, adminOrSupervisor)
	bancas.GET("/:id", bancaHandler.Get, adminOrSupervisor)
	bancas.POST("", bancaHandler.Create, adminOnly)
	bancas.PATCH("/:id", bancaHandler.Update, adminOnly)
	bancas.POST("/:id/activar", bancaHandler.Activate, adminOnly)
	bancas.POST("/:id/desactivar", bancaHandler.Deactivate, adminOnly)

	// --- Vendedores ---
	vendedorHandler := handler.NewVendedorHandler(deps.Vendedores)
	vendedores := e.Group("/vendedores", authn, adminOrSupervisor)
	vendedores.GET("", vendedorHandler.List)
	vendedores.POST("", vendedorHandler.Create)
	vendedores.GET("/:id", vendedorHandler.Get)
	vendedores.PATCH("/:id", vendedorHandler.Update)
	vendedores.GET("/:id/bancas", vendedorHandler.ListBancas)
	vendedores.POST("/:id/bancas", vendedorHandler.AssignBancas)
	vendedores.DELETE("/:id/bancas/:bancaId", vendedorHandler.RemoveBanca)

	// --- Jugadas ---
	jugadaHandler := handler.NewJugadaHandler(deps.Jugadas, deps.Guard, deps.History)
	jugadas := e.Group("/jugadas", authn)
	jugadas.GET("", jugadaHandler.List, anyRole)
	jugadas.POST("", jugadaHandler.Create, anyRole)
	jugadas.POST("/batch", jugadaHandler.CreateBatch, anyRole)
	jugadas.GET("/:id", jugadaHandler.Get, anyRole)
	jugadas.POST("/:id/anular", jugadaHandler.Cancel, adminOrSupervisor)
	jugadas.GET("/:id/eventos", jugadaHandler.Events, adminOrSupervisor)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      isInfraPath,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter limits requests per client IP. Without an injected store it
// falls back to Echo's in-process token bucket.
func rateLimiter(store echomiddleware.RateLimiterStore, opts Options) echo.MiddlewareFunc {
	if store == nil {
		window, max := opts.RateWindow, opts.RateMax
		if window <= 0 {
			window = time.Minute
		}
		if max <= 0 {
			max = 100
		}
		store = echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(max) / window.Seconds()),
			Burst:     max,
			ExpiresIn: window,
		})
	}

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: isInfraPath,
		Store:   store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

func isInfraPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/docs")
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func bodyLimit(limit string) string {
	if limit == "" {
		return "1M"
	}
	return limit
}
