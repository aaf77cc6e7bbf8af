package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JdmKash/icg-backend/internal/models"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict means a conditional update lost the race. The caller must
	// re-read and re-decide, never blindly retry the same write.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable marks transient store failures, retryable with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

// Accounts is the store port for account documents. Update is a
// compare-and-swap keyed on the version the caller read earlier and fails
// with ErrConflict when a concurrent writer got there first. Only the
// ledger-mutable fields (balance, rate, mining window, daily, ad quota) are
// written; identity and the referral edge are fixed at creation.
type Accounts interface {
	Create(ctx context.Context, a models.Account) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	Update(ctx context.Context, a models.Account, expectVersion int64) (models.Account, error)
	TopByBalance(ctx context.Context, n int) ([]models.Account, error)
}

// Clock supplies the authoritative timestamp for reward computation. It is
// derived at the store boundary, never from client-supplied wall clocks.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// ReferralCredits applies referral bonuses at most once per claim window.
type ReferralCredits interface {
	// Apply credits bonus to the referrer for the claimant's window started
	// at windowStart. The (claimantID, windowStart) pair is the dedup key:
	// replays return applied=false and change nothing. A missing referrer
	// returns ErrNotFound.
	Apply(ctx context.Context, referrerID, claimantID string, windowStart time.Time, bonus models.Mills) (applied bool, err error)
	ListByReferrer(ctx context.Context, referrerID string) ([]models.ReferralEdge, error)
}

type Receipts interface {
	Create(ctx context.Context, r models.Receipt) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Receipt, error)
}
