package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGeneratePair(t *testing.T) {
	pair, err := GeneratePair(secret, 42, "a@stash.test", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := ParseToken(secret, TypeAccess, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), access.UserID)
	assert.Equal(t, "a@stash.test", access.Email)

	refresh, err := ParseToken(secret, TypeRefresh, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestParseTokenRejects(t *testing.T) {
	tok, err := GenerateToken(secret, 1, "a@stash.test", TypeAccess, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(secret, TypeRefresh, tok)
	assert.ErrorIs(t, err, ErrTokenType)

	_, err = ParseToken([]byte("other"), TypeAccess, tok)
	assert.Error(t, err)

	expired, err := GenerateToken(secret, 1, "a@stash.test", TypeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, TypeAccess, expired)
	assert.Error(t, err)
}

func TestExpiresWithin(t *testing.T) {
	tok, err := GenerateToken(secret, 1, "a@stash.test", TypeAccess, 2*time.Minute)
	require.NoError(t, err)
	claims, err := ParseToken(secret, TypeAccess, tok)
	require.NoError(t, err)

	assert.True(t, ExpiresWithin(claims, 5*time.Minute))
	assert.False(t, ExpiresWithin(claims, time.Minute))
	assert.False(t, ExpiresWithin(&Claims{}, time.Hour))
}
