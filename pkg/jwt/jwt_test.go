package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", "nya-api", 15, 30)
}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	tm := newTestManager()

	token, err := tm.GenerateAccessToken("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, KindAccess, claims.Kind())
	assert.Equal(t, "nya-api", claims.Issuer)
}

func TestTokenManager_RefreshRoundTrip(t *testing.T) {
	tm := newTestManager()

	token, err := tm.GenerateRefreshToken("u2")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.Subject)
	assert.Equal(t, KindRefresh, claims.Kind())
}

func TestTokenManager_RejectsWrongKind(t *testing.T) {
	tm := newTestManager()

	refresh, err := tm.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = tm.ValidateToken(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)

	access, err := tm.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = tm.ValidateToken(access, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", "nya-api", 15, 30)
	tm.accessTTL = -time.Minute

	token, err := tm.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token, KindAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("other-secret", "nya-api", 15, 30)

	token, err := other.GenerateAccessToken("u1")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_TTLs(t *testing.T) {
	tm := newTestManager()
	assert.Equal(t, 15*time.Minute, tm.AccessTTL())
	assert.Equal(t, 30*24*time.Hour, tm.RefreshTTL())
}
