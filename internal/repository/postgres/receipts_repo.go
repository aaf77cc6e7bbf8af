package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/JdmKash/icg-backend/internal/models"
)

type receiptsRepo struct{ pool *pgxpool.Pool }

func (r *receiptsRepo) Create(ctx context.Context, rc models.Receipt) error {
	if rc.ID == "" {
		rc.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO receipts(id, account_id, kind, amount, ref) VALUES($1,$2,$3,$4,$5)`,
		rc.ID, rc.AccountID, rc.Kind, rc.Amount, rc.Ref,
	)
	return errors.Wrap(err, "create receipt")
}

func (r *receiptsRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, kind, amount, ref, created_at
		   FROM receipts
		  WHERE account_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list receipts")
	}
	defer rows.Close()

	var out []models.Receipt
	for rows.Next() {
		var rc models.Receipt
		if err := rows.Scan(&rc.ID, &rc.AccountID, &rc.Kind, &rc.Amount, &rc.Ref, &rc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
