package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTIssuer(t *testing.T) {
	issuer := NewJWTIssuer("segredo", time.Hour)

	t.Run("Round Trip", func(t *testing.T) {
		token, err := issuer.Generate("admin-1", "admin@x.com")
		require.NoError(t, err)

		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "admin-1", claims.Subject)
		assert.Equal(t, "admin@x.com", claims.Email)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token, err := NewJWTIssuer("outro", time.Hour).Generate("admin-1", "admin@x.com")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Expired", func(t *testing.T) {
		old := NewJWTIssuer("segredo", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := old.Generate("admin-1", "admin@x.com")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.True(t, errors.Is(err, ErrExpiredToken))
	})

	t.Run("Rejects None Algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, h.Compare(hash, "secret"))
	assert.Error(t, h.Compare(hash, "wrong"))
}
