package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lalarentals/users-micro/internal/auth"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("produces bcrypt hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
		assert.NotContains(t, hash, "password123")
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		h1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		h2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	for _, p := range []string{"a", "correct horse battery staple", "pässwörd", "12345678"} {
		hash, err := hasher.Hash(p)
		require.NoError(t, err)
		assert.True(t, hasher.Verify(p, hash), "round trip for %q", p)
		assert.False(t, hasher.Verify(p+"x", hash), "mismatch for %q", p)
	}

	t.Run("malformed hash is a mismatch", func(t *testing.T) {
		assert.False(t, hasher.Verify("password", "not-a-valid-hash"))
		assert.False(t, hasher.Verify("password", ""))
	})
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, auth.NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, auth.NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, auth.NewBcryptHasher(12).Cost())
}
