package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePair(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", "test", 15*time.Minute, 24*time.Hour)

	access, refresh, exp, err := tm.GeneratePair("acct-1")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Minute)

	claims, isRefresh, err := tm.ParseAny(access)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "acct-1", claims.UserID)

	claims, isRefresh, err = tm.ParseAny(refresh)
	require.NoError(t, err)
	assert.True(t, isRefresh)
	assert.Equal(t, "acct-1", claims.UserID)
}

func TestParseRejectsForeignToken(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", "test", time.Minute, time.Hour)
	other := NewTokenManager("different", "secrets!!", "test", time.Minute, time.Hour)

	access, _, _, err := other.GeneratePair("acct-1")
	require.NoError(t, err)

	_, _, err = tm.ParseAny(access)
	assert.Error(t, err)

	_, _, err = tm.ParseAny("not-a-token")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("hunter22", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}
