package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JdmKash/icg-backend/internal/models"
	"github.com/JdmKash/icg-backend/internal/repository/memory"
)

func TestLeaderboardTopN(t *testing.T) {
	st := memory.NewStore()
	for _, row := range []struct {
		name    string
		balance models.Mills
	}{
		{"low", 1_000},
		{"high", 900_000},
		{"mid", 500_000},
	} {
		_, err := st.Create(context.Background(), models.Account{
			ID: uuid.NewString(), Username: row.name, Balance: row.balance, MineRate: 1,
		})
		require.NoError(t, err)
	}

	// no redis wired: reads go straight to the store
	svc := NewLeaderboardService(st, nil)
	top, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Username)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "mid", top[1].Username)
	assert.Equal(t, 2, top[1].Rank)
}
