// Package apperr defines the error taxonomy shared by services and HTTP
// handlers.  Every error that can reach a client is an oops error carrying
// one of the codes below plus a public message; the HTTP layer turns the
// code into a status and never shows anything but the public message.
package apperr

import (
	"errors"
	"net/http"

	"github.com/samber/oops"
)

const (
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION"
	CodeInternal     = "INTERNAL"
)

// internalMessage is shown for every INTERNAL error regardless of cause.
const internalMessage = "Internal server error"

// Conflict reports a duplicate value for a unique field.
func Conflict(field, msg string) error {
	return oops.Code(CodeConflict).With("field", field).Public(msg).Errorf("%s", msg)
}

// Unauthorized reports bad credentials or a missing, invalid or expired token.
func Unauthorized(msg string) error {
	return oops.Code(CodeUnauthorized).Public(msg).Errorf("%s", msg)
}

// Forbidden reports an authenticated caller acting on something it does not own.
func Forbidden(msg string) error {
	return oops.Code(CodeForbidden).Public(msg).Errorf("%s", msg)
}

// NotFound reports a missing resource.
func NotFound(msg string) error {
	return oops.Code(CodeNotFound).Public(msg).Errorf("%s", msg)
}

// Validation reports a malformed request.  fields may be nil.
func Validation(msg string, fields map[string]string) error {
	b := oops.Code(CodeValidation).Public(msg)
	if len(fields) > 0 {
		b = b.With("fields", fields)
	}
	return b.Errorf("%s", msg)
}

// Internal wraps an unexpected store or transport failure.  The cause is
// kept for logging only.
func Internal(err error, op string) error {
	if err == nil {
		err = errors.New(op)
	}
	return oops.Code(CodeInternal).With("operation", op).Public(internalMessage).Wrapf(err, "%s", op)
}

// CodeOf returns the taxonomy code of err.  Errors that did not come from
// this package are reported as CodeInternal.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := oops.AsOops(err); ok {
		if code, ok := e.Code().(string); ok && code != "" {
			return code
		}
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool { return err != nil && CodeOf(err) == code }

// HTTPStatus maps err onto an HTTP status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message returns the text that may be shown to a client.
func Message(err error) string {
	if CodeOf(err) == CodeInternal {
		return internalMessage
	}
	if e, ok := oops.AsOops(err); ok && e.Public() != "" {
		return e.Public()
	}
	return internalMessage
}

// Field returns the conflicting field name of a CONFLICT error.
func Field(err error) string {
	if e, ok := oops.AsOops(err); ok {
		if f, ok := e.Context()["field"].(string); ok {
			return f
		}
	}
	return ""
}

// Fields returns the per-field messages of a VALIDATION error.
func Fields(err error) map[string]string {
	if e, ok := oops.AsOops(err); ok {
		if f, ok := e.Context()["fields"].(map[string]string); ok {
			return f
		}
	}
	return nil
}
