package security

import (
	"testing"
	"time"

	"farmrent-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateAccessToken(42, domain.RoleOwner, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: 42, Role: domain.RoleOwner}, claims.Actor())
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(testSecret)

	t.Run("expired", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, domain.RoleFarmer, -time.Minute)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenManager("another-secret-another-secret-xx").GenerateAccessToken(42, domain.RoleFarmer, time.Hour)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, domain.Role("guest"), time.Hour)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong type", func(t *testing.T) {
		claims := UserClaims{
			UserID: 42,
			Role:   domain.RoleFarmer,
			Type:   "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Audience:  jwt.ClaimStrings{accessAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := UserClaims{UserID: 42, Role: domain.RoleAdmin, Type: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{Audience: jwt.ClaimStrings{accessAudience}}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
