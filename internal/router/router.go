// Package router wires middleware and routes onto an Echo instance.
package router

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/config"
	"github.com/lalarentals/users-micro/internal/handler"
	"github.com/lalarentals/users-micro/internal/logging"
	"github.com/lalarentals/users-micro/internal/metrics"
	"github.com/lalarentals/users-micro/internal/middleware"
	"github.com/lalarentals/users-micro/internal/validation"
)

// Deps is everything New needs.  Redis, Metrics and DB may be nil: the
// rate limiter and cache then pass through, and /metrics and /readyz are
// not mounted.
type Deps struct {
	Config   config.Config
	Logger   *slog.Logger
	Verifier *auth.Verifier
	Redis    *redis.Client
	Metrics  *metrics.Metrics
	DB       handler.Pinger

	Auth     *handler.AuthHandler
	Houses   *handler.HouseHandler
	Bookings *handler.BookingHandler
}

// New builds the HTTP server with the global middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.ErrorHandler()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d)
	RegisterAuth(e, d.Auth, d.Verifier, middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Logger))

	cache := middleware.NewRedisCache(d.Config.Cache, d.Redis)
	purge := middleware.PurgeCache(d.Config.Cache, d.Redis, d.Logger)
	RegisterHouse(e, d.Houses, d.Verifier, cache, purge)
	RegisterBooking(e, d.Bookings, d.Verifier, purge)
	return e
}

// requestLogger stores a request-scoped slog logger in the request context
// and logs one line per request once the response is known.
func requestLogger(base *slog.Logger) echo.MiddlewareFunc {
	scope := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(c.Request().WithContext(logging.WithLogger(c.Request().Context(), l)))
			return next(c)
		}
	}
	access := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			base.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return access(scope(next))
	}
}

// RegisterRoutes registers the unauthenticated service endpoints: landing
// page, probes and metrics.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health)
	if d.DB != nil {
		e.GET("/readyz", handler.Ready(d.DB))
	}
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
}
