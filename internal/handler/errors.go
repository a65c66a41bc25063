package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/logging"
	"github.com/lalarentals/users-micro/internal/middleware"
)

// requestTimeout bounds the store work done for one request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// ErrorHandler renders every error returned by a handler as
// {"detail": msg} plus "field" for conflicts and "fields" for validation
// failures.  Internal errors are logged with their cause through the
// request logger and shown with a generic message.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
			writeErr(c, he.Code, echo.Map{"detail": msg})
			return
		}

		status := apperr.HTTPStatus(err)
		body := echo.Map{"detail": apperr.Message(err)}
		if f := apperr.Field(err); f != "" {
			body["field"] = f
		}
		if fs := apperr.Fields(err); len(fs) > 0 {
			body["fields"] = fs
		}
		if status >= http.StatusInternalServerError {
			logger := logging.FromContext(c.Request().Context())
			logging.LogError(logger.With("method", c.Request().Method, "path", c.Path()), "request failed", err)
		}
		writeErr(c, status, body)
	}
}

func writeErr(c echo.Context, status int, body echo.Map) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// identity returns the caller set by middleware.JWTAuth.
func identity(c echo.Context) (auth.Identity, error) {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return who, apperr.Unauthorized("Authentication failed")
	}
	return who, nil
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid id", map[string]string{"id": "Must be a positive integer"})
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	return c.Validate(req)
}
