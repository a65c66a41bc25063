package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/auth"
)

// 401 bodies written by JWTAuth.
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgTokenInvalid     = "Authentication failed. Your token is invalid or has expired. Please re-authenticate."
	MsgTokenExpired     = "Your session has expired. Please log in again."
	MsgMissingClaims    = "Authentication required!"
)

// JWTAuth returns an Echo middleware that validates the Bearer access token
// with v and stores the resulting auth.Identity on both the echo context and
// the request context.  Handlers read it back with CurrentIdentity.
func JWTAuth(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return unauthorized(c, MsgNotAuthenticated)
			}

			who, err := v.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					return unauthorized(c, MsgTokenExpired)
				case errors.Is(err, auth.ErrTokenMissingClaims):
					return unauthorized(c, MsgMissingClaims)
				}
				return unauthorized(c, MsgTokenInvalid)
			}

			setIdentity(c, who)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"detail": msg})
}
