package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalarentals/users-micro/internal/apperr"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"role"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signup{Email: "a@x.com", Password: "longenough", Role: "OWNER"}))
	require.NoError(t, v.Validate(&signup{Email: "a@x.com", Password: "longenough"}), "empty role defaults")

	err := v.Validate(&signup{Email: "nope", Password: "short", Role: "admin"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	fields := apperr.Fields(err)
	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Equal(t, "Must be at least 8 characters long", fields["password"])
	assert.Equal(t, "Must be one of: owner, renter", fields["role"])
}

func TestValidateBookingStatus(t *testing.T) {
	type req struct {
		Status string `json:"status" validate:"required,booking_status"`
	}
	v := New()

	assert.NoError(t, v.Validate(&req{Status: "cancel"}))
	err := v.Validate(&req{Status: "done"})
	assert.Equal(t, "Must be one of: pending, approved, canceled", apperr.Fields(err)["status"])
}
