package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_IssueAndParseTokenPair(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	pair, err := svc.IssueTokenPair(7, "someuser", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), access.UserID)
	assert.Equal(t, "someuser", access.Username)
	assert.Equal(t, "a@b.com", access.Email)
	assert.Equal(t, "access", access.Type)

	refresh, err := svc.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestJWTService_ParseToken_RejectsWrongSecret(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	other, err := NewJWTService("other-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	pair, err := svc.IssueTokenPair(7, "someuser", "a@b.com")
	require.NoError(t, err)

	_, err = other.ParseToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", time.Hour, 24*time.Hour)
	assert.Error(t, err)
}
