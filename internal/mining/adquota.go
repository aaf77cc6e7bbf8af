package mining

import (
	"time"

	"github.com/JdmKash/icg-backend/internal/models"
)

// AdView is the outcome of counting one rewarded-ad completion against the
// per-period quota. When RetryIn is positive the quota is exhausted and no
// reward is due; otherwise Count and PeriodStartedAt are the new quota state.
type AdView struct {
	Count           int
	PeriodStartedAt time.Time
	Remaining       int
	RetryIn         time.Duration
}

// NextAdView decides whether one more rewarded ad fits into the current
// period. The period is a fixed window starting at the first ad watched, not
// a rolling one; once it expires the counter resets and a new window opens
// at now. The SDK-reported count is never trusted, only the stored state.
func NextAdView(views models.AdViews, now time.Time) AdView {
	if views.PeriodStartedAt == nil || now.Sub(*views.PeriodStartedAt) >= AdPeriod {
		return AdView{Count: 1, PeriodStartedAt: now, Remaining: MaxAdsPerPeriod - 1}
	}
	if views.Count >= MaxAdsPerPeriod {
		return AdView{
			Count:           views.Count,
			PeriodStartedAt: *views.PeriodStartedAt,
			RetryIn:         views.PeriodStartedAt.Add(AdPeriod).Sub(now),
		}
	}
	count := views.Count + 1
	return AdView{Count: count, PeriodStartedAt: *views.PeriodStartedAt, Remaining: MaxAdsPerPeriod - count}
}
