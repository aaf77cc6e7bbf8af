package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/JdmKash/icg-backend/internal/repository"
)

// The store-level errors are part of the ledger's public taxonomy.
var (
	ErrNotFound    = repository.ErrNotFound
	ErrConflict    = repository.ErrConflict
	ErrUnavailable = repository.ErrUnavailable

	ErrNotMining           = errors.New("mining is not active")
	ErrMiningActive        = errors.New("mining is in progress")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrRateAtMaximum       = errors.New("mine rate already at maximum")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// NotYetClaimableError rejects a claim before the accrual window is full and
// carries the remaining time so the UI can show a countdown.
type NotYetClaimableError struct {
	Remaining time.Duration
}

func (e *NotYetClaimableError) Error() string {
	return fmt.Sprintf("not yet claimable, %s remaining", e.Remaining.Truncate(time.Second))
}

// AlreadyClaimedError rejects a daily claim made less than a day after the
// previous one.
type AlreadyClaimedError struct {
	Wait time.Duration
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("already claimed today, next claim in %s", e.Wait.Truncate(time.Second))
}

// QuotaExceededError rejects an ad view past the per-period limit.
type QuotaExceededError struct {
	RetryIn time.Duration
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("ad quota exhausted, resets in %s", e.RetryIn.Truncate(time.Second))
}
