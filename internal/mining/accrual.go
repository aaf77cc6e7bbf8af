package mining

import (
	"time"

	"github.com/JdmKash/icg-backend/internal/models"
)

// Accrual is the state of one mining window at a given instant.
type Accrual struct {
	Mined          models.Mills  `json:"mined"`
	ElapsedSeconds int64         `json:"elapsed_seconds"`
	Progress       float64       `json:"progress"` // 0..100
	Remaining      time.Duration `json:"-"`
	Claimable      bool          `json:"claimable"`
}

// Accrue computes mined amount, progress and remaining time for a window
// started at startedAt, observed at now. Elapsed time is truncated to whole
// seconds before multiplying, so sub-second timestamp jitter cannot change
// the payout, and the amount saturates at the period cap.
func Accrue(startedAt time.Time, rate models.Mills, now time.Time) Accrual {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	capSeconds := int64(PeriodDuration / time.Second)
	elapsedSeconds := int64(elapsed / time.Second)

	billable := elapsedSeconds
	if billable > capSeconds {
		billable = capSeconds
	}

	progress := float64(elapsedSeconds) / float64(capSeconds) * 100
	if progress > 100 {
		progress = 100
	}

	remaining := PeriodDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return Accrual{
		Mined:          models.Mills(int64(rate) * billable),
		ElapsedSeconds: elapsedSeconds,
		Progress:       progress,
		Remaining:      remaining,
		Claimable:      elapsed >= PeriodDuration,
	}
}

// Countdown splits the remaining time into whole hours, minutes and seconds.
func (a Accrual) Countdown() (hours, minutes, seconds int) {
	r := a.Remaining
	hours = int(r / time.Hour)
	r -= time.Duration(hours) * time.Hour
	minutes = int(r / time.Minute)
	r -= time.Duration(minutes) * time.Minute
	seconds = int(r / time.Second)
	return hours, minutes, seconds
}
