package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JdmKash/icg-backend/internal/auth"
	"github.com/JdmKash/icg-backend/internal/mining"
	"github.com/JdmKash/icg-backend/internal/repository/memory"
)

func newAccountService() (*AccountService, *memory.Store) {
	st := memory.NewStore()
	tm := auth.NewTokenManager("access-secret", "refresh-secret", "test", 15*time.Minute, 24*time.Hour)
	return NewAccountService(st, st, st.Receipts(), tm), st
}

func TestRegisterGrantsInitialState(t *testing.T) {
	svc, _ := newAccountService()

	a, err := svc.Register(context.Background(), "alice", "hunter22", "")
	require.NoError(t, err)

	assert.Equal(t, mining.InitialGrant, a.Balance)
	assert.Equal(t, mining.MinMineRate, a.MineRate)
	assert.False(t, a.MiningActive)
	assert.Equal(t, 0, a.Daily.StreakDay)
	assert.Nil(t, a.ReferredBy)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "ab", "hunter22", "")
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), "alice", "short", "")
	assert.Error(t, err)
}

func TestRegisterWithReferralCode(t *testing.T) {
	svc, _ := newAccountService()

	ref, err := svc.Register(context.Background(), "referrer", "hunter22", "")
	require.NoError(t, err)

	a, err := svc.Register(context.Background(), "invitee", "hunter22", "referrer")
	require.NoError(t, err)
	require.NotNil(t, a.ReferredBy)
	assert.Equal(t, ref.ID, *a.ReferredBy)

	// an unknown code is ignored, not fatal
	b, err := svc.Register(context.Background(), "walkin", "hunter22", "nobody")
	require.NoError(t, err)
	assert.Nil(t, b.ReferredBy)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "alice", "hunter22", "")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "alice", "hunter22", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _ := newAccountService()

	_, err := svc.Register(context.Background(), "alice", "hunter22", "")
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	// an access token is not a refresh token
	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetIncludesReferralEarnings(t *testing.T) {
	svc, st := newAccountService()

	ref, err := svc.Register(context.Background(), "referrer", "hunter22", "")
	require.NoError(t, err)
	inv, err := svc.Register(context.Background(), "invitee", "hunter22", "referrer")
	require.NoError(t, err)

	now, _ := st.Now(context.Background())
	_, err = st.Apply(context.Background(), ref.ID, inv.ID, now, 2_160)
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), ref.ID)
	require.NoError(t, err)
	require.Len(t, view.Referrals, 1)
	assert.Equal(t, inv.ID, view.Referrals[0].ReferredID)
}
