// Package memory is an in-memory implementation of the repository ports
// with the same compare-and-swap semantics as the Postgres one. It backs
// the test suites and carries a settable clock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JdmKash/icg-backend/internal/models"
	"github.com/JdmKash/icg-backend/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	now      time.Time
	accounts map[string]models.Account
	receipts []models.Receipt
	edges    map[string]map[string]models.ReferralEdge
	payouts  map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		now:      time.Now().UTC().Truncate(time.Second),
		accounts: make(map[string]models.Account),
		edges:    make(map[string]map[string]models.ReferralEdge),
		payouts:  make(map[string]struct{}),
	}
}

// SetNow pins the store clock; Advance moves it forward.
func (s *Store) SetNow(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = t.UTC()
}

func (s *Store) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *Store) Now(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now, nil
}

// ---- Accounts ----

func (s *Store) Create(_ context.Context, a models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, ok := s.accounts[a.ID]; ok {
		return models.Account{}, repository.ErrConflict
	}
	for _, other := range s.accounts {
		if other.Username == a.Username {
			return models.Account{}, repository.ErrConflict
		}
	}
	a.Version = 1
	a.CreatedAt = s.now
	a.UpdatedAt = s.now
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) GetByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return models.Account{}, repository.ErrNotFound
}

func (s *Store) Update(_ context.Context, a models.Account, expectVersion int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.accounts[a.ID]
	if !ok {
		return models.Account{}, repository.ErrNotFound
	}
	if cur.Version != expectVersion {
		return models.Account{}, repository.ErrConflict
	}
	cur.Balance = a.Balance
	cur.MineRate = a.MineRate
	cur.MiningActive = a.MiningActive
	cur.MiningStartedAt = a.MiningStartedAt
	cur.Daily = a.Daily
	cur.AdViews = a.AdViews
	cur.Version++
	cur.UpdatedAt = s.now
	s.accounts[a.ID] = cur
	return cur, nil
}

// SetReferredBy wires a referral edge after creation; the Update CAS
// deliberately never touches it.
func (s *Store) SetReferredBy(accountID, referrerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[accountID]; ok {
		a.ReferredBy = &referrerID
		s.accounts[accountID] = a
	}
}

func (s *Store) TopByBalance(_ context.Context, n int) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Username < out[j].Username
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// ---- ReferralCredits ----

func payoutKey(claimantID string, windowStart time.Time) string {
	return claimantID + "|" + windowStart.UTC().Format(time.RFC3339Nano)
}

func (s *Store) Apply(_ context.Context, referrerID, claimantID string, windowStart time.Time, bonus models.Mills) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := payoutKey(claimantID, windowStart)
	if _, dup := s.payouts[key]; dup {
		return false, nil
	}
	ref, ok := s.accounts[referrerID]
	if !ok {
		return false, repository.ErrNotFound
	}
	s.payouts[key] = struct{}{}
	ref.Balance += bonus
	ref.Version++
	ref.UpdatedAt = s.now
	s.accounts[referrerID] = ref

	if s.edges[referrerID] == nil {
		s.edges[referrerID] = make(map[string]models.ReferralEdge)
	}
	e := s.edges[referrerID][claimantID]
	e.ReferredID = claimantID
	e.AddedValue += bonus
	e.UpdatedAt = s.now
	s.edges[referrerID][claimantID] = e
	return true, nil
}

func (s *Store) ListByReferrer(_ context.Context, referrerID string) ([]models.ReferralEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReferralEdge
	for _, e := range s.edges[referrerID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedValue > out[j].AddedValue })
	return out, nil
}

// ---- Receipts ----

func (s *Store) CreateReceipt(_ context.Context, r models.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = s.now
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *Store) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.Receipt
	for i := len(s.receipts) - 1; i >= 0; i-- {
		if s.receipts[i].AccountID == accountID {
			all = append(all, s.receipts[i])
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Receipts adapts the store to the repository.Receipts port (the method
// name Create is taken by Accounts on this type).
func (s *Store) Receipts() repository.Receipts { return receiptsView{s} }

type receiptsView struct{ s *Store }

func (v receiptsView) Create(ctx context.Context, r models.Receipt) error {
	return v.s.CreateReceipt(ctx, r)
}

func (v receiptsView) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Receipt, error) {
	return v.s.ListByAccount(ctx, accountID, limit, offset)
}
