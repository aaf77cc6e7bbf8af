// Package mining holds the pure reward engines: accrual, upgrade pricing,
// the daily streak and the rewarded-ad quota. Everything here is stateless
// and deterministic; the ledger service owns all I/O and persistence.
package mining

import (
	"time"

	"github.com/JdmKash/icg-backend/internal/models"
)

const (
	// PeriodDuration is the accrual window cap: mining saturates after it.
	PeriodDuration = 6 * time.Hour

	MinMineRate models.Mills = 1       // 0.001 coins/sec
	MaxMineRate models.Mills = 100_000 // 100.0 coins/sec

	// InitialGrant is credited when an account is first created.
	InitialGrant models.Mills = 100_000 // 100 coins

	// PriceMultiplier prices an upgrade in coins per coin-per-second of the
	// next rate. The factor is unit-free, so it applies to mills unchanged.
	PriceMultiplier = 100_000

	// ReferralBonusDivisor: referrers earn 1/10 of every claimed amount.
	ReferralBonusDivisor = 10

	DailyBase models.Mills = 10_000     // 10 coins on streak day 1
	StreakCap models.Mills = 10_000_000 // 10000 coins, amounts never exceed this

	streakContinueWindow = 48 * time.Hour
	streakClaimInterval  = 24 * time.Hour

	CoinsPerAd      models.Mills = 10_000 // 10 coins per rewarded ad
	MaxAdsPerPeriod              = 10
	AdPeriod                     = 12 * time.Hour
)

// ReferralBonus is 10% of a claimed amount, rounded half away from zero to
// two decimal places of a coin.
func ReferralBonus(mined models.Mills) models.Mills {
	return mined.RoundToMultiple(100) / ReferralBonusDivisor
}
