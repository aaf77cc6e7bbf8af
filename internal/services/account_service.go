package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/JdmKash/icg-backend/internal/auth"
	"github.com/JdmKash/icg-backend/internal/mining"
	"github.com/JdmKash/icg-backend/internal/models"
	repo "github.com/JdmKash/icg-backend/internal/repository"
)

// AccountService owns account creation and login. Accounts are created
// lazily on first contact with the initial grant and the minimum rate;
// nothing in this subsystem ever deletes one.
type AccountService struct {
	accounts  repo.Accounts
	referrals repo.ReferralCredits
	receipts  repo.Receipts
	tm        *auth.TokenManager
}

func NewAccountService(a repo.Accounts, rf repo.ReferralCredits, rc repo.Receipts, tm *auth.TokenManager) *AccountService {
	return &AccountService{accounts: a, referrals: rf, receipts: rc, tm: tm}
}

// Register creates an account. referralCode, when present, is the referrer's
// username; an unknown code is logged and ignored rather than failing the
// signup.
func (s *AccountService) Register(ctx context.Context, username, password, referralCode string) (models.Account, error) {
	a := models.Account{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(username),
		Balance:  mining.InitialGrant,
		MineRate: mining.MinMineRate,
	}
	if err := a.Validate(); err != nil {
		return models.Account{}, err
	}
	if len(password) < 6 {
		return models.Account{}, errors.New("password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}
	a.PasswordHash = hash

	if code := strings.TrimSpace(referralCode); code != "" {
		ref, err := s.accounts.GetByUsername(ctx, code)
		if err != nil {
			slog.Warn("unknown referral code ignored", "code", code)
		} else if ref.Username != a.Username {
			a.ReferredBy = &ref.ID
		}
	}

	created, err := s.accounts.Create(ctx, a)
	if err != nil {
		return models.Account{}, err
	}
	if err := s.receipts.Create(ctx, models.Receipt{
		AccountID: created.ID,
		Kind:      models.ReceiptGrant,
		Amount:    mining.InitialGrant,
	}); err != nil {
		slog.Error("grant receipt write failed", "account", created.ID, "err", err)
	}
	return created, nil
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *AccountService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	a, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if err := auth.VerifyPassword(password, a.PasswordHash); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(a.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (s *AccountService) Refresh(token string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(token)
	if err != nil || !isRefresh {
		return TokenPair{}, ErrInvalidCredentials
	}
	access, refresh, exp, err := s.tm.GeneratePair(claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// AccountView is the account read model plus the referral earnings ledger.
type AccountView struct {
	Account   models.Account        `json:"account"`
	Referrals []models.ReferralEdge `json:"referrals"`
}

func (s *AccountService) Get(ctx context.Context, id string) (AccountView, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return AccountView{}, err
	}
	edges, err := s.referrals.ListByReferrer(ctx, id)
	if err != nil {
		return AccountView{}, err
	}
	return AccountView{Account: a, Referrals: edges}, nil
}
