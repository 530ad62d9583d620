package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTManagerForTest(t *testing.T) JWTManagerInterface {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewJWTManager()
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	require.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAccessToken_Expired(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestAccessToken_Garbage(t *testing.T) {
	manager := newJWTManagerForTest(t)

	_, err := manager.ValidateAccessToken("definitely.not.a.token")
	assert.Error(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token", 24*time.Hour)
	require.NoError(t, err)

	userID, err := manager.ExtractUserIDFromRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	assert.NoError(t, manager.ValidateRefreshToken(token, "hash-token"))
}

func TestRefreshToken_RejectedAfterHashTokenRotation(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token", 24*time.Hour)
	require.NoError(t, err)

	// A password change stores a new hash token, so old refresh tokens die.
	err = manager.ValidateRefreshToken(token, "rotated-hash-token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
