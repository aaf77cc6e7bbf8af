package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/JdmKash/icg-backend/internal/models"
	"github.com/JdmKash/icg-backend/internal/repository"
)

type accountsRepo struct{ pool *pgxpool.Pool }

const accountCols = `id, username, password_hash, balance, mine_rate, mining_active,
	mining_started_at, referred_by, daily_last_claimed_at, daily_streak_day,
	ad_count, ad_period_started_at, version, created_at, updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Balance, &a.MineRate, &a.MiningActive,
		&a.MiningStartedAt, &a.ReferredBy, &a.Daily.LastClaimedAt, &a.Daily.StreakDay,
		&a.AdViews.Count, &a.AdViews.PeriodStartedAt, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO accounts(
			id, username, password_hash, balance, mine_rate, mining_active,
			mining_started_at, referred_by, daily_last_claimed_at, daily_streak_day,
			ad_count, ad_period_started_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING `+accountCols,
		a.ID, a.Username, a.PasswordHash, a.Balance, a.MineRate, a.MiningActive,
		a.MiningStartedAt, a.ReferredBy, a.Daily.LastClaimedAt, a.Daily.StreakDay,
		a.AdViews.Count, a.AdViews.PeriodStartedAt,
	)
	out, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return models.Account{}, repository.ErrConflict
		}
		return models.Account{}, errors.Wrap(err, "create account")
	}
	return out, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Account{}, errors.Wrap(err, "get account")
	}
	return a, nil
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE username=$1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Account{}, errors.Wrap(err, "get account by username")
	}
	return a, nil
}

// Update is the conditional write every ledger operation relies on: it only
// lands if the row still carries the version the caller read, otherwise the
// caller lost the race and gets ErrConflict.
func (r *accountsRepo) Update(ctx context.Context, a models.Account, expectVersion int64) (models.Account, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE accounts SET
			balance=$3, mine_rate=$4, mining_active=$5, mining_started_at=$6,
			daily_last_claimed_at=$7, daily_streak_day=$8,
			ad_count=$9, ad_period_started_at=$10,
			version=version+1, updated_at=now()
		 WHERE id=$1 AND version=$2
		 RETURNING `+accountCols,
		a.ID, expectVersion,
		a.Balance, a.MineRate, a.MiningActive, a.MiningStartedAt,
		a.Daily.LastClaimedAt, a.Daily.StreakDay,
		a.AdViews.Count, a.AdViews.PeriodStartedAt,
	)
	out, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrConflict
	}
	if err != nil {
		return models.Account{}, errors.Wrap(err, "update account")
	}
	return out, nil
}

func (r *accountsRepo) TopByBalance(ctx context.Context, n int) ([]models.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountCols+` FROM accounts ORDER BY balance DESC, username ASC LIMIT $1`, n)
	if err != nil {
		return nil, errors.Wrap(err, "top accounts")
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
