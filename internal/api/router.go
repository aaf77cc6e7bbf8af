package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/JdmKash/icg-backend/internal/api/httpx"
	"github.com/JdmKash/icg-backend/internal/api/validate"
	"github.com/JdmKash/icg-backend/internal/config"
	"github.com/JdmKash/icg-backend/internal/metrics"
	"github.com/JdmKash/icg-backend/internal/middleware"
	"github.com/JdmKash/icg-backend/internal/services"
)

func NewRouter(cfg config.Config, authMW *middleware.AuthMiddleware, accounts *services.AccountService, ledger *services.Ledger, board *services.LeaderboardService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Username, Password, ReferralCode string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			var errs validate.Errs
			if e := validate.MinLen("username", req.Username, 3); e != nil {
				errs = append(errs, *e)
			}
			if e := validate.MinLen("password", req.Password, 6); e != nil {
				errs = append(errs, *e)
			}
			if len(errs) > 0 {
				httpx.WriteError(w, http.StatusBadRequest, "validation", errs.Error(), errs)
				return
			}
			a, err := accounts.Register(r.Context(), req.Username, req.Password, req.ReferralCode)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, a)
		})

		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Username, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			pair, err := accounts.Login(r.Context(), req.Username, req.Password)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, pair)
		})

		r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				RefreshToken string `json:"refresh_token"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			pair, err := accounts.Refresh(req.RefreshToken)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, pair)
		})

		// ---------- leaderboard (public top-N read) ----------
		r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			n := 50
			if v := r.URL.Query().Get("limit"); v != "" {
				if x, err := strconv.Atoi(v); err == nil && x > 0 && x <= 100 {
					n = x
				}
			}
			top, err := board.Top(r.Context(), n)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, top)
		})

		// ---------- ledger (authenticated) ----------
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			account := func(r *http.Request) string {
				id, _ := middleware.AccountID(r.Context())
				return id
			}

			r.Get("/account", func(w http.ResponseWriter, r *http.Request) {
				v, err := accounts.Get(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, v)
			})

			r.Get("/mining/status", func(w http.ResponseWriter, r *http.Request) {
				st, err := ledger.Progress(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, st)
			})

			r.Post("/mining/start", func(w http.ResponseWriter, r *http.Request) {
				a, err := ledger.StartAccrual(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, a)
			})

			r.Post("/mining/claim", func(w http.ResponseWriter, r *http.Request) {
				res, err := ledger.ClaimAccrual(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, res)
			})

			r.Post("/mining/upgrade", func(w http.ResponseWriter, r *http.Request) {
				a, err := ledger.ApplyUpgrade(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, a)
			})

			r.Get("/daily", func(w http.ResponseWriter, r *http.Request) {
				sc, err := ledger.DailyPreview(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, sc)
			})

			r.Post("/daily/claim", func(w http.ResponseWriter, r *http.Request) {
				res, err := ledger.ClaimDaily(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, res)
			})

			// The ad SDK is an opaque "ad completed" event producer; the
			// request body carries nothing we trust.
			r.Post("/ads/complete", func(w http.ResponseWriter, r *http.Request) {
				res, err := ledger.RegisterAdView(r.Context(), account(r))
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, res)
			})

			r.Get("/receipts", func(w http.ResponseWriter, r *http.Request) {
				limit, offset := 50, 0
				if v := r.URL.Query().Get("limit"); v != "" {
					if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
						limit = n
					}
				}
				if v := r.URL.Query().Get("offset"); v != "" {
					if n, err := strconv.Atoi(v); err == nil && n >= 0 {
						offset = n
					}
				}
				rc, err := ledger.Receipts(r.Context(), account(r), limit, offset)
				if err != nil {
					writeServiceError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, rc)
			})
		})
	})

	return r
}
