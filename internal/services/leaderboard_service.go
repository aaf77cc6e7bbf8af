package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"

	"github.com/JdmKash/icg-backend/internal/models"
	repo "github.com/JdmKash/icg-backend/internal/repository"
)

// LeaderboardService serves the top-N-by-balance read. Results are cached in
// Redis with a short TTL; Redis being absent or down just means every read
// hits the store directly.
type LeaderboardService struct {
	accounts repo.Accounts
	rdb      *redis.Client
	ttl      time.Duration
}

func NewLeaderboardService(a repo.Accounts, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{accounts: a, rdb: rdb, ttl: 30 * time.Second}
}

type LeaderboardEntry struct {
	Rank     int          `json:"rank"`
	Username string       `json:"username"`
	Balance  models.Mills `json:"balance"`
	MineRate models.Mills `json:"mine_rate"`
}

func (s *LeaderboardService) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	key := fmt.Sprintf("leaderboard:top:%d", n)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(key).Result(); err == nil {
			var cached []LeaderboardEntry
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	accs, err := s.accounts.TopByBalance(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(accs))
	for i, a := range accs {
		out = append(out, LeaderboardEntry{
			Rank:     i + 1,
			Username: a.Username,
			Balance:  a.Balance,
			MineRate: a.MineRate,
		})
	}
	if s.rdb != nil {
		if b, err := json.Marshal(out); err == nil {
			s.rdb.Set(key, b, s.ttl)
		}
	}
	return out, nil
}
