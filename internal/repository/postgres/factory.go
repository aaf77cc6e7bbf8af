package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/JdmKash/icg-backend/internal/repository"
)

type Repositories struct {
	Accounts  repo.Accounts
	Referrals repo.ReferralCredits
	Receipts  repo.Receipts
	Clock     repo.Clock
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:  &accountsRepo{pool},
		Referrals: &referralsRepo{pool},
		Receipts:  &receiptsRepo{pool},
		Clock:     &dbClock{pool},
	}
}
