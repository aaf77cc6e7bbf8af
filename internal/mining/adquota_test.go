package mining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JdmKash/icg-backend/internal/models"
)

func TestNextAdViewFirstEver(t *testing.T) {
	av := NextAdView(models.AdViews{}, t0)

	assert.Equal(t, 1, av.Count)
	assert.Equal(t, t0, av.PeriodStartedAt)
	assert.Equal(t, MaxAdsPerPeriod-1, av.Remaining)
	assert.Zero(t, av.RetryIn)
}

func TestNextAdViewWithinPeriod(t *testing.T) {
	start := t0.Add(-time.Hour)
	av := NextAdView(models.AdViews{Count: 4, PeriodStartedAt: &start}, t0)

	assert.Equal(t, 5, av.Count)
	assert.Equal(t, start, av.PeriodStartedAt)
	assert.Equal(t, 5, av.Remaining)
}

func TestNextAdViewQuotaExhausted(t *testing.T) {
	start := t0.Add(-2 * time.Hour)
	av := NextAdView(models.AdViews{Count: MaxAdsPerPeriod, PeriodStartedAt: &start}, t0)

	assert.Equal(t, 10*time.Hour, av.RetryIn)
	assert.Equal(t, MaxAdsPerPeriod, av.Count)
}

func TestNextAdViewPeriodExpiredResets(t *testing.T) {
	start := t0.Add(-AdPeriod)
	av := NextAdView(models.AdViews{Count: MaxAdsPerPeriod, PeriodStartedAt: &start}, t0)

	assert.Equal(t, 1, av.Count)
	assert.Equal(t, t0, av.PeriodStartedAt)
	assert.Zero(t, av.RetryIn)
}

func TestReferralBonusRounding(t *testing.T) {
	// 100.000 coins mined -> exactly 10.00 coins bonus
	assert.Equal(t, models.Mills(10_000), ReferralBonus(100_000))

	// 0.055 coins mined -> 0.0055 rounds half away to 0.01
	assert.Equal(t, models.Mills(10), ReferralBonus(55))

	// 0.044 coins mined -> 0.0044 rounds down to 0.00
	assert.Equal(t, models.Mills(0), ReferralBonus(44))
}
