package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JdmKash/icg-backend/internal/auth"
	"github.com/JdmKash/icg-backend/internal/config"
	"github.com/JdmKash/icg-backend/internal/middleware"
	"github.com/JdmKash/icg-backend/internal/mining"
	"github.com/JdmKash/icg-backend/internal/repository/memory"
	"github.com/JdmKash/icg-backend/internal/services"
	"github.com/JdmKash/icg-backend/internal/worker"
)

type testServer struct {
	store   *memory.Store
	handler http.Handler
	wp      *worker.Pool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memory.NewStore()
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	cfg := config.Config{Env: "dev", RateRPS: 0}
	tm := auth.NewTokenManager("access", "refresh", "test", 15*time.Minute, 24*time.Hour)
	accounts := services.NewAccountService(st, st, st.Receipts(), tm)
	ledger := services.NewLedger(st, st, st.Receipts(), st, wp)
	board := services.NewLeaderboardService(st, nil)

	h := NewRouter(cfg, middleware.NewAuthMiddleware(tm, cfg.Env), accounts, ledger, board)
	return &testServer{store: st, handler: h, wp: wp}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/mining/status", "", nil) // wrong prefix: 404
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/mining/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiningFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "alice")
	bearer := "dev-" + id

	// claiming before starting is rejected
	rec := s.do(t, http.MethodPost, "/api/v1/mining/claim", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_mining")

	rec = s.do(t, http.MethodPost, "/api/v1/mining/start", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// too early: a countdown comes back
	s.store.Advance(time.Hour)
	rec = s.do(t, http.MethodPost, "/api/v1/mining/claim", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_yet_claimable")
	assert.Contains(t, rec.Body.String(), "remaining_seconds")

	s.store.Advance(mining.PeriodDuration)
	rec = s.do(t, http.MethodPost, "/api/v1/mining/claim", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		AmountPaid float64 `json:"amount_paid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 21.6, res.AmountPaid) // 0.001/sec for 6h

	rec = s.do(t, http.MethodPost, "/api/v1/mining/claim", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDailyClaimOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "alice")
	bearer := "dev-" + id

	rec := s.do(t, http.MethodPost, "/api/v1/daily/claim", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/daily/claim", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_claimed_today")
}

func TestLeaderboardOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")

	rec := s.do(t, http.MethodGet, "/api/v1/leaderboard?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var top []struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	assert.Len(t, top, 2)
}

func TestUpgradeOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "alice")
	bearer := "dev-" + id

	rec := s.do(t, http.MethodPost, "/api/v1/mining/upgrade", bearer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_balance")
}
