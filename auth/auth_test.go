package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplePass(t *testing.T) {
	token, err := ParseApplePass("ApplePass abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	for _, header := range []string{"", "ApplePass", "ApplePass ", "Bearer abc123", "applepass abc123"} {
		_, err := ParseApplePass(header)
		assert.ErrorIs(t, err, ErrMissingCredential, header)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateSessionToken(secret, "user-1", "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
}

func TestParseSessionTokenRejects(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateSessionToken(secret, "user-1", "alice", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken(secret, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateSessionToken(secret, "user-1", "alice", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
