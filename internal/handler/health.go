package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health is a liveness probe; it never touches a dependency.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports 503 until db answers a ping.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "Database unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	}
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>LALA Rentals | House Rentals Platform</title></head>
<body style="font-family:Arial,sans-serif;background:#f4f8fb;">
<div style="max-width:640px;margin:40px auto;background:#fff;padding:24px;border-radius:8px;">
<h1 style="color:#2a4365;">LALA Rentals House Rentals Platform</h1>
<h2>Users Micro Service</h2>
<p>Registration, login, house listings and bookings.</p>
</div>
</body>
</html>`

// Index serves the landing page.
func Index(c echo.Context) error {
	return c.HTML(http.StatusOK, indexPage)
}
