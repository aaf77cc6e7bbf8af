package mining

import "github.com/JdmKash/icg-backend/internal/models"

// Step returns the rate increment for the tier containing rate. The tier
// boundaries are fixed constants; two divergent formulas existed in earlier
// revisions of the product and this table is the canonical one.
func Step(rate models.Mills) models.Mills {
	switch {
	case rate < 10: // < 0.01 coins/sec
		return 1
	case rate < 100: // < 0.1
		return 10
	case rate < 1_000: // < 1
		return 100
	case rate < 10_000: // < 10
		return 1_000
	default:
		return 10_000
	}
}

// Upgrade describes the next rate tier and what it costs.
type Upgrade struct {
	NextRate models.Mills `json:"next_rate"`
	Cost     models.Mills `json:"cost"`
}

// NextUpgrade returns the upgrade reachable from rate, or ok=false when the
// rate already sits at the maximum. The next rate is clamped to MaxMineRate
// and the price is NextRate times PriceMultiplier.
func NextUpgrade(rate models.Mills) (Upgrade, bool) {
	if rate >= MaxMineRate {
		return Upgrade{}, false
	}
	next := rate + Step(rate)
	if next > MaxMineRate {
		next = MaxMineRate
	}
	return Upgrade{NextRate: next, Cost: next * PriceMultiplier}, true
}
