package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/JdmKash/icg-backend/internal/metrics"
	"github.com/JdmKash/icg-backend/internal/mining"
	"github.com/JdmKash/icg-backend/internal/models"
	repo "github.com/JdmKash/icg-backend/internal/repository"
	"github.com/JdmKash/icg-backend/internal/worker"
)

// Ledger is the only component that mutates persisted balances. Every
// operation is a read, a decision made against the store's own clock, and a
// single conditional write; losing the write race surfaces as ErrConflict
// and the caller re-reads before deciding again.
type Ledger struct {
	accounts  repo.Accounts
	referrals repo.ReferralCredits
	receipts  repo.Receipts
	clock     repo.Clock
	wp        *worker.Pool
}

func NewLedger(a repo.Accounts, rf repo.ReferralCredits, rc repo.Receipts, clock repo.Clock, wp *worker.Pool) *Ledger {
	return &Ledger{accounts: a, referrals: rf, receipts: rc, clock: clock, wp: wp}
}

// AccrualStatus is the authoritative read model the UI projects from. When
// mining is idle Accrual is zero and Upgrade quotes the reachable tier.
type AccrualStatus struct {
	Account models.Account  `json:"account"`
	Accrual mining.Accrual  `json:"accrual"`
	Upgrade *mining.Upgrade `json:"upgrade,omitempty"`
}

type ClaimResult struct {
	AmountPaid models.Mills   `json:"amount_paid"`
	Account    models.Account `json:"account"`
}

type DailyResult struct {
	Amount      models.Mills   `json:"amount"`
	StreakDay   int            `json:"streak_day"`
	StreakReset bool           `json:"streak_reset"`
	Account     models.Account `json:"account"`
}

type AdViewResult struct {
	Amount    models.Mills   `json:"amount"`
	Remaining int            `json:"remaining"`
	Account   models.Account `json:"account"`
}

func (l *Ledger) Progress(ctx context.Context, accountID string) (AccrualStatus, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return AccrualStatus{}, err
	}
	st := AccrualStatus{Account: a}
	if a.MiningActive && a.MiningStartedAt != nil {
		now, err := l.clock.Now(ctx)
		if err != nil {
			return AccrualStatus{}, err
		}
		st.Accrual = mining.Accrue(*a.MiningStartedAt, a.MineRate, now)
	} else if up, ok := mining.NextUpgrade(a.MineRate); ok {
		st.Upgrade = &up
	}
	return st, nil
}

// StartAccrual opens a mining window. Starting while one is already open is
// a no-op success, so duplicate requests from retries or double clicks are
// harmless.
func (l *Ledger) StartAccrual(ctx context.Context, accountID string) (models.Account, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	if a.MiningActive {
		return a, nil
	}
	now, err := l.clock.Now(ctx)
	if err != nil {
		return models.Account{}, err
	}
	a.MiningActive = true
	a.MiningStartedAt = &now
	updated, err := l.accounts.Update(ctx, a, a.Version)
	if err != nil {
		metrics.LedgerOps.WithLabelValues("start", outcome(err)).Inc()
		return models.Account{}, err
	}
	metrics.LedgerOps.WithLabelValues("start", "success").Inc()
	return updated, nil
}

// ClaimAccrual converts a completed window into balance. The mined amount is
// recomputed from the stored start time and the store clock, never from
// anything the client sent, and the conditional write guarantees the window
// pays out at most once.
func (l *Ledger) ClaimAccrual(ctx context.Context, accountID string) (ClaimResult, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return ClaimResult{}, err
	}
	if !a.MiningActive || a.MiningStartedAt == nil {
		metrics.LedgerOps.WithLabelValues("claim", "rejected").Inc()
		return ClaimResult{}, ErrNotMining
	}
	now, err := l.clock.Now(ctx)
	if err != nil {
		return ClaimResult{}, err
	}
	acc := mining.Accrue(*a.MiningStartedAt, a.MineRate, now)
	if !acc.Claimable {
		metrics.LedgerOps.WithLabelValues("claim", "rejected").Inc()
		return ClaimResult{}, &NotYetClaimableError{Remaining: acc.Remaining}
	}

	windowStart := *a.MiningStartedAt
	a.Balance += acc.Mined
	a.MiningActive = false
	a.MiningStartedAt = nil
	updated, err := l.accounts.Update(ctx, a, a.Version)
	if err != nil {
		metrics.LedgerOps.WithLabelValues("claim", outcome(err)).Inc()
		return ClaimResult{}, err
	}
	metrics.LedgerOps.WithLabelValues("claim", "success").Inc()
	metrics.ClaimedMills.Add(float64(acc.Mined))

	l.record(ctx, models.Receipt{AccountID: a.ID, Kind: models.ReceiptClaim, Amount: acc.Mined})
	if a.ReferredBy != nil {
		l.propagateReferral(*a.ReferredBy, a.ID, windowStart, acc.Mined)
	}
	return ClaimResult{AmountPaid: acc.Mined, Account: updated}, nil
}

// propagateReferral pays the 10% bonus upstream on the worker pool. It is
// additive and at-least-once: the (claimant, windowStart) dedup key in the
// store makes replays no-ops, and failures never touch the claimant's own
// payout.
func (l *Ledger) propagateReferral(referrerID, claimantID string, windowStart time.Time, mined models.Mills) {
	bonus := mining.ReferralBonus(mined)
	if bonus <= 0 {
		return
	}
	l.wp.Submit(func() {
		for attempt := 1; ; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			applied, err := l.referrals.Apply(ctx, referrerID, claimantID, windowStart, bonus)
			cancel()
			switch {
			case err == nil:
				if applied {
					metrics.ReferralPayouts.Inc()
					l.record(context.Background(), models.Receipt{
						AccountID: referrerID,
						Kind:      models.ReceiptReferral,
						Amount:    bonus,
						Ref:       &claimantID,
					})
				}
				return
			case errors.Is(err, repo.ErrNotFound):
				slog.Warn("referrer missing, bonus discarded",
					"referrer", referrerID, "claimant", claimantID)
				return
			case attempt >= 3:
				slog.Error("referral payout failed",
					"referrer", referrerID, "claimant", claimantID, "err", err)
				return
			}
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	})
}

// ApplyUpgrade buys the next rate tier. The rate only ever moves up, and
// only while no window is open.
func (l *Ledger) ApplyUpgrade(ctx context.Context, accountID string) (models.Account, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return models.Account{}, err
	}
	if a.MiningActive {
		metrics.LedgerOps.WithLabelValues("upgrade", "rejected").Inc()
		return models.Account{}, ErrMiningActive
	}
	up, ok := mining.NextUpgrade(a.MineRate)
	if !ok {
		metrics.LedgerOps.WithLabelValues("upgrade", "rejected").Inc()
		return models.Account{}, ErrRateAtMaximum
	}
	if a.Balance < up.Cost {
		metrics.LedgerOps.WithLabelValues("upgrade", "rejected").Inc()
		return models.Account{}, ErrInsufficientBalance
	}
	a.Balance -= up.Cost
	a.MineRate = up.NextRate
	updated, err := l.accounts.Update(ctx, a, a.Version)
	if err != nil {
		metrics.LedgerOps.WithLabelValues("upgrade", outcome(err)).Inc()
		return models.Account{}, err
	}
	metrics.LedgerOps.WithLabelValues("upgrade", "success").Inc()
	l.record(ctx, models.Receipt{AccountID: a.ID, Kind: models.ReceiptUpgrade, Amount: -up.Cost})
	return updated, nil
}

// DailyPreview evaluates the streak without claiming, for display.
func (l *Ledger) DailyPreview(ctx context.Context, accountID string) (mining.StreakClaim, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return mining.StreakClaim{}, err
	}
	now, err := l.clock.Now(ctx)
	if err != nil {
		return mining.StreakClaim{}, err
	}
	return mining.NextStreak(a.Daily.LastClaimedAt, a.Daily.StreakDay, now), nil
}

func (l *Ledger) ClaimDaily(ctx context.Context, accountID string) (DailyResult, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return DailyResult{}, err
	}
	now, err := l.clock.Now(ctx)
	if err != nil {
		return DailyResult{}, err
	}
	sc := mining.NextStreak(a.Daily.LastClaimedAt, a.Daily.StreakDay, now)
	if sc.Wait > 0 {
		metrics.LedgerOps.WithLabelValues("daily", "rejected").Inc()
		return DailyResult{}, &AlreadyClaimedError{Wait: sc.Wait}
	}
	a.Balance += sc.Amount
	a.Daily = models.Daily{LastClaimedAt: &now, StreakDay: sc.Day}
	updated, err := l.accounts.Update(ctx, a, a.Version)
	if err != nil {
		metrics.LedgerOps.WithLabelValues("daily", outcome(err)).Inc()
		return DailyResult{}, err
	}
	metrics.LedgerOps.WithLabelValues("daily", "success").Inc()
	l.record(ctx, models.Receipt{AccountID: a.ID, Kind: models.ReceiptDaily, Amount: sc.Amount})
	return DailyResult{Amount: sc.Amount, StreakDay: sc.Day, StreakReset: sc.Reset, Account: updated}, nil
}

// RegisterAdView consumes one "ad completed" signal. The quota bookkeeping
// lives here, not in whatever the ad SDK reports.
func (l *Ledger) RegisterAdView(ctx context.Context, accountID string) (AdViewResult, error) {
	a, err := l.accounts.GetByID(ctx, accountID)
	if err != nil {
		return AdViewResult{}, err
	}
	now, err := l.clock.Now(ctx)
	if err != nil {
		return AdViewResult{}, err
	}
	av := mining.NextAdView(a.AdViews, now)
	if av.RetryIn > 0 {
		metrics.LedgerOps.WithLabelValues("ad_view", "rejected").Inc()
		return AdViewResult{}, &QuotaExceededError{RetryIn: av.RetryIn}
	}
	started := av.PeriodStartedAt
	a.AdViews = models.AdViews{Count: av.Count, PeriodStartedAt: &started}
	a.Balance += mining.CoinsPerAd
	updated, err := l.accounts.Update(ctx, a, a.Version)
	if err != nil {
		metrics.LedgerOps.WithLabelValues("ad_view", outcome(err)).Inc()
		return AdViewResult{}, err
	}
	metrics.LedgerOps.WithLabelValues("ad_view", "success").Inc()
	l.record(ctx, models.Receipt{AccountID: a.ID, Kind: models.ReceiptAdView, Amount: mining.CoinsPerAd})
	return AdViewResult{Amount: mining.CoinsPerAd, Remaining: av.Remaining, Account: updated}, nil
}

func (l *Ledger) Receipts(ctx context.Context, accountID string, limit, offset int) ([]models.Receipt, error) {
	return l.receipts.ListByAccount(ctx, accountID, limit, offset)
}

// record writes a receipt best-effort. Balances in the accounts table are
// authoritative; a lost receipt is a logged gap in history, not corruption.
func (l *Ledger) record(ctx context.Context, r models.Receipt) {
	if err := l.receipts.Create(ctx, r); err != nil {
		slog.Error("receipt write failed", "account", r.AccountID, "kind", r.Kind, "err", err)
	}
}

func outcome(err error) string {
	if errors.Is(err, repo.ErrConflict) {
		return "conflict"
	}
	return "error"
}
