package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/handler"
	"github.com/lalarentals/users-micro/internal/middleware"
	"github.com/lalarentals/users-micro/internal/model"
)

// RegisterHouse mounts /api/house.  The list and detail reads are public
// and go through cache; every successful write runs purge.  Item routes are
// served both as /api/house{id} and /api/house/{id}.
func RegisterHouse(e *echo.Echo, h *handler.HouseHandler, v *auth.Verifier, cache, purge echo.MiddlewareFunc) {
	jwt := middleware.JWTAuth(v)
	g := e.Group("/api")

	g.POST("/house", h.Create, jwt, middleware.RequireRole(model.RoleOwner), purge)
	g.GET("/house", h.List, cache)
	g.GET("/house/customers", h.Customers, jwt)
	g.GET("/house/me", h.Mine, jwt)

	for _, p := range []string{"/house:id", "/house/:id"} {
		g.GET(p, h.Get, cache)
		g.PUT(p, h.Update, jwt, purge)
		g.DELETE(p, h.Delete, jwt, purge)
	}
}
