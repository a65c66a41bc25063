package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/handler"
	"github.com/lalarentals/users-micro/internal/middleware"
)

// RegisterAuth mounts /auth.  limit guards every route in the group;
// /auth/me additionally needs a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v *auth.Verifier, limit echo.MiddlewareFunc) {
	g := e.Group("/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(v))
}
