package apperr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lalarentals/users-micro/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", apperr.Conflict("email", "Email already taken"), http.StatusConflict},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden},
		{"not found", apperr.NotFound("House not found"), http.StatusNotFound},
		{"validation", apperr.Validation("bad input", nil), http.StatusBadRequest},
		{"internal", apperr.Internal(errors.New("boom"), "insert user"), http.StatusInternalServerError},
		{"plain error", errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err))
		})
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := apperr.Internal(errors.New("dial tcp 10.0.0.3:3306: connection refused"), "insert user")

	assert.Equal(t, "Internal server error", apperr.Message(err))
	assert.NotContains(t, apperr.Message(err), "10.0.0.3")
	assert.Equal(t, "Internal server error", apperr.Message(errors.New("raw")))
}

func TestConflictCarriesField(t *testing.T) {
	err := apperr.Conflict("phone", "Phone number already taken")

	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Equal(t, "phone", apperr.Field(err))
	assert.Equal(t, "Phone number already taken", apperr.Message(err))
}

func TestValidationCarriesFields(t *testing.T) {
	err := apperr.Validation("invalid request", map[string]string{"email": "must be a valid email"})

	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Equal(t, map[string]string{"email": "must be a valid email"}, apperr.Fields(err))
}

func TestCodeOfNil(t *testing.T) {
	assert.Equal(t, "", apperr.CodeOf(nil))
	assert.False(t, apperr.Is(nil, apperr.CodeInternal))
}
