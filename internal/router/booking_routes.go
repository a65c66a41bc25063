package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/handler"
	"github.com/lalarentals/users-micro/internal/middleware"
)

// RegisterBooking mounts /api/booking.  Creating a booking takes the house
// off the public list, so it purges the house cache.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, v *auth.Verifier, purge echo.MiddlewareFunc) {
	jwt := middleware.JWTAuth(v)
	g := e.Group("/api")

	g.POST("/booking", b.Create, jwt, purge)
	g.GET("/booking", b.List)
	g.GET("/booking/user", b.Mine, jwt)

	for _, p := range []string{"/booking:id", "/booking/:id"} {
		g.PUT(p, b.UpdateStatus, jwt)
		g.DELETE(p, b.Delete, jwt)
	}
}
