package middleware

// identity.go keeps the verified caller on the echo context.  The same
// value is copied into the request context so services and loggers that
// only see a context.Context can reach it.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/auth"
)

const identityKey = "identity"

func setIdentity(c echo.Context, who auth.Identity) {
	c.Set(identityKey, who)
	c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), who)))
}

// CurrentIdentity returns the caller authenticated by JWTAuth.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	if who, ok := c.Get(identityKey).(auth.Identity); ok && who.UserID != 0 {
		return who, true
	}
	return auth.IdentityFrom(c.Request().Context())
}

// currentUserID is the caller's id for rate-limit keys, "anon" when no
// token was presented.
func currentUserID(c echo.Context) string {
	if who, ok := CurrentIdentity(c); ok {
		return strconv.FormatUint(who.UserID, 10)
	}
	return "anon"
}
