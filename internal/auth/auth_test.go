package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		password := "samePassword"
		hash1, _ := HashPassword(password)
		hash2, _ := HashPassword(password)

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	password := "correctPassword"
	hashed, _ := HashPassword(password)

	t.Run("Correct password", func(t *testing.T) {
		assert.True(t, CheckPassword(hashed, password))
	})

	t.Run("Incorrect password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, "wrongPassword"))
	})

	t.Run("Empty password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, ""))
	})
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Successfully generate access token", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "user@example.com", RoleUser, testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "user@example.com", RoleUser, "")

		assert.Error(t, err)
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Token contains correct claims", func(t *testing.T) {
		userID := 42
		email := "owner@example.com"
		role := RoleOwner

		token, err := GenerateAccessToken(userID, email, role, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("Reject token signed with different secret", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "user@example.com", RoleUser, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, "another-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Reject garbage token", func(t *testing.T) {
		claims, err := ValidateToken("not-a-jwt", testSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Reject empty secret", func(t *testing.T) {
		_, err := ValidateToken("whatever", "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("Exchange refresh token for a new access token", func(t *testing.T) {
		refreshToken, err := GenerateRefreshToken(7, "user@example.com", RoleUser, testSecret)
		require.NoError(t, err)

		newAccess, claims, err := RefreshAccessToken(refreshToken, testSecret, testSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.Equal(t, 7, claims.UserID)

		accessClaims, err := ValidateToken(newAccess, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", accessClaims.TokenType)
	})

	t.Run("Reject access token used as refresh token", func(t *testing.T) {
		accessToken, err := GenerateAccessToken(7, "user@example.com", RoleUser, testSecret)
		require.NoError(t, err)

		_, _, err = RefreshAccessToken(accessToken, testSecret, testSecret)
		assert.Equal(t, ErrInvalidTokenType, err)
	})
}
