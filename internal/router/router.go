package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/secure-user-api/internal/handler"
	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/middleware"
)

// Deps carries everything the route table needs.  Cache may be nil.
type Deps struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Health *handler.HealthHandler
	Tokens middleware.TokenValidator
	Cache  echo.MiddlewareFunc
	Log    *logger.Logger
}

// New builds an Echo instance with the shared middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))

	RegisterRoutes(e, d.Health)
	RegisterAuth(e, d.Auth, d.Tokens, d.Log)
	RegisterUsers(e, d.Users, d.Tokens, d.Cache, d.Log)
	return e
}

// RegisterRoutes registers routes that do not require authentication:
// liveness and readiness probes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", handler.Health)
	if h != nil {
		e.GET("/readyz", h.Ready)
	}
}

// RegisterAuth registers POST /login (public) and GET /me (bearer only).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenValidator, log *logger.Logger) {
	e.POST("/login", a.Login)
	e.GET("/me", a.Me, middleware.JWTAuth(tokens, log))
}

// RegisterUsers registers the authenticated read endpoints.  JWTAuth runs
// before the cache so an unauthenticated request never sees a cached body.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, tokens middleware.TokenValidator, cache echo.MiddlewareFunc, log *logger.Logger) {
	mws := []echo.MiddlewareFunc{middleware.JWTAuth(tokens, log)}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/users/:id", u.GetUser, mws...)
	e.GET("/data", u.GetData, mws...)
}

// requestLogger emits one slog record per request.  Query strings and
// headers are left out so bearer tokens never reach the log.
func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= 500 {
				level = slog.LevelError
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
