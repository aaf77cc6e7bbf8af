package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/JdmKash/icg-backend/internal/api/httpx"
	"github.com/JdmKash/icg-backend/internal/services"
)

// writeServiceError maps the ledger error taxonomy onto HTTP. Conflicts are
// 409 so clients know to re-read before deciding again; everything else is
// terminal for the call.
func writeServiceError(w http.ResponseWriter, err error) {
	var notYet *services.NotYetClaimableError
	var claimed *services.AlreadyClaimedError
	var quota *services.QuotaExceededError

	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "account not found", nil)
	case errors.Is(err, services.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "state changed concurrently, re-read and retry", nil)
	case errors.Is(err, services.ErrNotMining):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "not_mining", err.Error(), nil)
	case errors.As(err, &notYet):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "not_yet_claimable", err.Error(),
			map[string]any{"remaining_seconds": int(notYet.Remaining / time.Second)})
	case errors.Is(err, services.ErrMiningActive):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "mining_active", err.Error(), nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error(), nil)
	case errors.Is(err, services.ErrRateAtMaximum):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "rate_at_maximum", err.Error(), nil)
	case errors.As(err, &claimed):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "already_claimed_today", err.Error(),
			map[string]any{"wait_seconds": int(claimed.Wait / time.Second)})
	case errors.As(err, &quota):
		httpx.WriteError(w, http.StatusTooManyRequests, "quota_exceeded", err.Error(),
			map[string]any{"retry_in_seconds": int(quota.RetryIn / time.Second)})
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil)
	case errors.Is(err, services.ErrUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "temporarily unavailable, retry with backoff", nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
