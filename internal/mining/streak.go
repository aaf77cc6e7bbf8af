package mining

import (
	"time"

	"github.com/JdmKash/icg-backend/internal/models"
)

// StreakClaim is the outcome of evaluating a daily claim. When Wait is
// positive the claim is too early and nothing else is meaningful; otherwise
// Day and Amount describe the claim to apply, with Reset marking a broken
// streak.
type StreakClaim struct {
	Day    int           `json:"day"`
	Amount models.Mills  `json:"amount"`
	Reset  bool          `json:"reset"`
	Wait   time.Duration `json:"-"`
}

// NextStreak evaluates the daily-reward state machine at now. A first-ever
// claim starts the streak at day 1; a claim within 24h of the last one must
// wait; between 24h and 48h the streak continues with a doubling reward; at
// 48h or more the streak is broken and restarts at day 1.
func NextStreak(lastClaimedAt *time.Time, streakDay int, now time.Time) StreakClaim {
	if lastClaimedAt == nil {
		return StreakClaim{Day: 1, Amount: DailyBase}
	}
	since := now.Sub(*lastClaimedAt)
	switch {
	case since < streakClaimInterval:
		return StreakClaim{Day: streakDay, Wait: streakClaimInterval - since}
	case since >= streakContinueWindow:
		return StreakClaim{Day: 1, Amount: DailyBase, Reset: true}
	default:
		day := streakDay + 1
		return StreakClaim{Day: day, Amount: streakAmount(day)}
	}
}

func streakAmount(day int) models.Mills {
	// 10 * 2^10 already exceeds the cap, and larger shifts would overflow.
	if day > 10 {
		return StreakCap
	}
	amount := DailyBase << (day - 1)
	if amount > StreakCap {
		return StreakCap
	}
	return amount
}
