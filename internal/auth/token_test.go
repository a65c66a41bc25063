package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalarentals/users-micro/internal/auth"
	"github.com/lalarentals/users-micro/internal/model"
)

var testKey = auth.SigningKey{Secret: "test-secret", Algorithm: "HS256"}

func fixedClock(t time.Time) auth.Option {
	return auth.WithClock(func() time.Time { return t })
}

func newPair(t *testing.T, now time.Time) (*auth.Issuer, *auth.Verifier) {
	t.Helper()
	iss, err := auth.NewIssuer(testKey, fixedClock(now))
	require.NoError(t, err)
	ver, err := auth.NewVerifier(testKey, fixedClock(now))
	require.NoError(t, err)
	return iss, ver
}

func signRaw(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, ver := newPair(t, now)

	tok, err := iss.Issue("a@x.com", 42, model.RoleOwner, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*24*time.Hour), tok.Expires)

	id, err := ver.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{Email: "a@x.com", UserID: 42, Role: model.RoleOwner}, id)
}

func TestIssueIsDeterministicForSameClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, _ := newPair(t, now)

	a, err := iss.Issue("a@x.com", 1, model.RoleRenter, time.Hour)
	require.NoError(t, err)
	b, err := iss.Issue("a@x.com", 1, model.RoleRenter, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, a.Token, b.Token)
}

func TestVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, err := auth.NewIssuer(testKey, fixedClock(issuedAt))
	require.NoError(t, err)
	tok, err := iss.Issue("a@x.com", 7, model.RoleRenter, time.Hour)
	require.NoError(t, err)

	t.Run("exactly at expiry", func(t *testing.T) {
		ver, err := auth.NewVerifier(testKey, fixedClock(issuedAt.Add(time.Hour)))
		require.NoError(t, err)
		_, err = ver.Verify(tok.Token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("well past expiry", func(t *testing.T) {
		ver, err := auth.NewVerifier(testKey, fixedClock(issuedAt.Add(48*time.Hour)))
		require.NoError(t, err)
		_, err = ver.Verify(tok.Token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("expired with foreign signature is still expired", func(t *testing.T) {
		raw := signRaw(t, jwt.SigningMethodHS256, "someone-else", jwt.MapClaims{
			"email": "a@x.com", "id": 7, "role": "renter", "exp": issuedAt.Add(-time.Minute).Unix(),
		})
		ver, err := auth.NewVerifier(testKey, fixedClock(issuedAt))
		require.NoError(t, err)
		_, err = ver.Verify(raw)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestVerifyInvalid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, ver := newPair(t, now)
	valid := jwt.MapClaims{"email": "a@x.com", "id": 7, "role": "renter", "exp": now.Add(time.Hour).Unix()}
	noExp := jwt.MapClaims{"email": "a@x.com", "id": 7, "role": "renter"}

	cases := map[string]string{
		"different secret":         signRaw(t, jwt.SigningMethodHS256, "other-secret", valid),
		"algorithm mismatch":       signRaw(t, jwt.SigningMethodHS512, testKey.Secret, valid),
		"garbage":                  "not.a.token",
		"empty":                    "",
		"different secret, no exp": signRaw(t, jwt.SigningMethodHS256, "other-secret", noExp),
		"HS512, no exp":            signRaw(t, jwt.SigningMethodHS512, testKey.Secret, noExp),
		"unknown role":             signRaw(t, jwt.SigningMethodHS256, testKey.Secret, jwt.MapClaims{"email": "a@x.com", "id": 7, "role": "admin", "exp": now.Add(time.Hour).Unix()}),
		"non-numeric id":           signRaw(t, jwt.SigningMethodHS256, testKey.Secret, jwt.MapClaims{"email": "a@x.com", "id": "seven", "role": "renter", "exp": now.Add(time.Hour).Unix()}),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ver.Verify(raw)
			assert.ErrorIs(t, err, auth.ErrTokenInvalid)
		})
	}
}

func TestVerifyMissingClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, ver := newPair(t, now)
	exp := now.Add(time.Hour).Unix()

	cases := map[string]jwt.MapClaims{
		"no email": {"id": 7, "role": "renter", "exp": exp},
		"no id":    {"email": "a@x.com", "role": "renter", "exp": exp},
		"no role":  {"email": "a@x.com", "id": 7, "exp": exp},
		"no exp":   {"email": "a@x.com", "id": 7, "role": "renter"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ver.Verify(signRaw(t, jwt.SigningMethodHS256, testKey.Secret, claims))
			assert.ErrorIs(t, err, auth.ErrTokenMissingClaims)
		})
	}
}

func TestVerifyAcceptsStringID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, ver := newPair(t, now)
	raw := signRaw(t, jwt.SigningMethodHS256, testKey.Secret, jwt.MapClaims{
		"email": "a@x.com", "id": "15", "role": "OWNER", "exp": now.Add(time.Hour).Unix(),
	})

	id, err := ver.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), id.UserID)
	assert.Equal(t, model.RoleOwner, id.Role)
}

func TestSigningKeyFailsClosed(t *testing.T) {
	_, err := auth.NewIssuer(auth.SigningKey{Algorithm: "HS256"})
	assert.ErrorIs(t, err, auth.ErrSecretMissing)

	_, err = auth.NewVerifier(auth.SigningKey{Algorithm: "HS256"})
	assert.ErrorIs(t, err, auth.ErrSecretMissing)

	_, err = auth.NewIssuer(auth.SigningKey{Secret: "s", Algorithm: "RS256"})
	assert.ErrorIs(t, err, auth.ErrUnsupportedAlgorithm)

	_, err = auth.NewVerifier(auth.SigningKey{Secret: "s", Algorithm: "none"})
	assert.ErrorIs(t, err, auth.ErrUnsupportedAlgorithm)

	iss, err := auth.NewIssuer(auth.SigningKey{Secret: "s"})
	require.NoError(t, err, "empty algorithm defaults to HS256")
	assert.NotNil(t, iss)
}
