package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/JdmKash/icg-backend/internal/models"
	"github.com/JdmKash/icg-backend/internal/repository"
)

type referralsRepo struct{ pool *pgxpool.Pool }

// Apply runs the whole referral payout in one serializable transaction. The
// payout row is the idempotency key: a retry that finds it already inserted
// commits nothing and reports applied=false.
func (r *referralsRepo) Apply(ctx context.Context, referrerID, claimantID string, windowStart time.Time, bonus models.Mills) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return false, errors.Wrap(repository.ErrUnavailable, err.Error())
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`INSERT INTO referral_payouts(claimant_id, window_started_at, referrer_id, bonus)
		 VALUES($1,$2,$3,$4)
		 ON CONFLICT (claimant_id, window_started_at) DO NOTHING`,
		claimantID, windowStart, referrerID, bonus,
	)
	if err != nil {
		return false, errors.Wrap(err, "record referral payout")
	}
	if tag.RowsAffected() == 0 {
		// Already paid for this claim window.
		return false, nil
	}

	tag, err = tx.Exec(ctx,
		`UPDATE accounts SET balance=balance+$2, version=version+1, updated_at=now() WHERE id=$1`,
		referrerID, bonus,
	)
	if err != nil {
		return false, errors.Wrap(err, "credit referrer")
	}
	if tag.RowsAffected() == 0 {
		return false, repository.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO referral_credits(referrer_id, referred_id, added_value, updated_at)
		 VALUES($1,$2,$3,now())
		 ON CONFLICT (referrer_id, referred_id) DO UPDATE
		 SET added_value = referral_credits.added_value + EXCLUDED.added_value,
		     updated_at  = now()`,
		referrerID, claimantID, bonus,
	)
	if err != nil {
		return false, errors.Wrap(err, "bump referral edge")
	}
	if err := tx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "commit referral payout")
	}
	return true, nil
}

func (r *referralsRepo) ListByReferrer(ctx context.Context, referrerID string) ([]models.ReferralEdge, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT referred_id, added_value, updated_at
		   FROM referral_credits
		  WHERE referrer_id=$1
		  ORDER BY added_value DESC`,
		referrerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list referral edges")
	}
	defer rows.Close()

	var out []models.ReferralEdge
	for rows.Next() {
		var e models.ReferralEdge
		if err := rows.Scan(&e.ReferredID, &e.AddedValue, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
