package mining

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JdmKash/icg-backend/internal/models"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAccrueHalfway(t *testing.T) {
	// rate 0.010 coins/sec, 3h into a 6h window
	acc := Accrue(t0, 10, t0.Add(3*time.Hour))

	assert.Equal(t, models.Mills(108_000), acc.Mined) // 108.000 coins
	assert.Equal(t, 50.0, acc.Progress)
	assert.False(t, acc.Claimable)
	assert.Equal(t, 3*time.Hour, acc.Remaining)
}

func TestAccrueSaturatesAtCap(t *testing.T) {
	capSeconds := int64(PeriodDuration / time.Second)
	for _, rate := range []models.Mills{MinMineRate, 10, 1_000, MaxMineRate} {
		for _, over := range []time.Duration{0, time.Second, time.Hour, 48 * time.Hour} {
			acc := Accrue(t0, rate, t0.Add(PeriodDuration+over))
			assert.Equal(t, models.Mills(int64(rate)*capSeconds), acc.Mined,
				"rate %v over %v", rate, over)
			assert.True(t, acc.Claimable)
			assert.Equal(t, 100.0, acc.Progress)
			assert.Equal(t, time.Duration(0), acc.Remaining)
		}
	}
}

func TestAccrueMonotonic(t *testing.T) {
	var prev models.Mills = -1
	for elapsed := time.Duration(0); elapsed < PeriodDuration; elapsed += 13 * time.Minute {
		acc := Accrue(t0, 7, t0.Add(elapsed))
		require.GreaterOrEqual(t, acc.Mined, prev, "elapsed %v", elapsed)
		prev = acc.Mined
	}
}

func TestAccrueClockBehindStart(t *testing.T) {
	acc := Accrue(t0, 100, t0.Add(-time.Minute))

	assert.Equal(t, models.Mills(0), acc.Mined)
	assert.Equal(t, 0.0, acc.Progress)
	assert.False(t, acc.Claimable)
}

func TestAccrueTruncatesSubSecondJitter(t *testing.T) {
	whole := Accrue(t0, 5, t0.Add(90*time.Second))
	jittered := Accrue(t0, 5, t0.Add(90*time.Second+700*time.Millisecond))

	assert.Equal(t, whole.Mined, jittered.Mined)
}

func TestCountdown(t *testing.T) {
	acc := Accrue(t0, 1, t0.Add(2*time.Hour+15*time.Minute+5*time.Second))
	h, m, s := acc.Countdown()

	assert.Equal(t, 3, h)
	assert.Equal(t, 44, m)
	assert.Equal(t, 55, s)
}
