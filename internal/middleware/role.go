package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/model"
)

// RequireRole rejects callers whose token role is not one of roles with
// 403.  It must run after JWTAuth; without an identity it answers 401.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, ok := CurrentIdentity(c)
			if !ok {
				return unauthorized(c, MsgMissingClaims)
			}
			if !allowed[who.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"detail": "Not authorized to perform this action"})
			}
			return next(c)
		}
	}
}
