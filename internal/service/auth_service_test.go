package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalarentals/users-micro/internal/apperr"
	"github.com/lalarentals/users-micro/internal/model"
	"github.com/lalarentals/users-micro/internal/service"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.auth.Register(ctx, service.RegisterInput{
		FullName: "Alice Owner", Email: "Alice@Example.com", Password: "pw-123456", Phone: "0788000001",
		IDNumber: "ID-1", Role: "owner",
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, model.RoleOwner, p.Role)

	sent := f.outbox.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
	assert.Contains(t, sent[0].HTMLBody, "Alice Owner")
}

func TestRegister_DefaultsToRenter(t *testing.T) {
	f := newFixture(t)
	p, err := f.auth.Register(context.Background(), service.RegisterInput{Email: "r@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleRenter, p.Role)
}

func TestRegister_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, service.RegisterInput{
		Email: "a@x.com", Password: "pw", Phone: "0788", IDNumber: "ID-1",
	})
	require.NoError(t, err)

	cases := []struct {
		name  string
		in    service.RegisterInput
		code  string
		field string
		msg   string
	}{
		{"id number first", service.RegisterInput{Email: "a@x.com", Password: "pw", Phone: "0788", IDNumber: "ID-1"},
			apperr.CodeConflict, "id_number", "Id number already taken"},
		{"phone before email", service.RegisterInput{Email: "a@x.com", Password: "pw", Phone: "0788"},
			apperr.CodeConflict, "phone", "Phone number already taken"},
		{"email", service.RegisterInput{Email: "A@X.com", Password: "pw"},
			apperr.CodeConflict, "email", "Email already taken"},
		{"unknown role", service.RegisterInput{Email: "b@x.com", Password: "pw", Role: "admin"},
			apperr.CodeValidation, "", "Invalid role"},
		{"missing password", service.RegisterInput{Email: "b@x.com"},
			apperr.CodeValidation, "", "Email and password are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperr.CodeOf(err))
			assert.Equal(t, tc.msg, apperr.Message(err))
			if tc.field != "" {
				assert.Equal(t, tc.field, apperr.Field(err))
			}
		})
	}
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.Registrations.WithLabelValues("conflict")))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, service.RegisterInput{
		FullName: "Bob", Email: "bob@x.com", Password: "right-pw", Phone: "0788000002", Role: "renter",
	})
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "BOB@x.com", "right-pw")
		require.NoError(t, err)
		assert.Equal(t, "bob@x.com", res.User.Email)
		assert.WithinDuration(t, time.Now().Add(time.Hour), res.Token.Expires, 5*time.Second)

		who, err := f.verifier.Verify(res.Token.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, who.UserID)
		assert.Equal(t, model.RoleRenter, who.Role)
	})

	t.Run("by phone", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "0788000002", "right-pw")
		require.NoError(t, err)
		assert.Equal(t, "bob@x.com", res.User.Email)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		_, wrongPw := f.auth.Login(ctx, "bob@x.com", "wrong")
		_, unknown := f.auth.Login(ctx, "nobody@x.com", "right-pw")
		for _, err := range []error{wrongPw, unknown} {
			require.Error(t, err)
			assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
			assert.Equal(t, service.MsgInvalidCredentials, apperr.Message(err))
		}
	})
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	who := f.register(t, "Carol", "carol@x.com", "", model.RoleRenter)

	p, err := f.auth.Me(context.Background(), who)
	require.NoError(t, err)
	assert.Equal(t, "Carol", p.FullName)

	who.UserID = 9999
	_, err = f.auth.Me(context.Background(), who)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
