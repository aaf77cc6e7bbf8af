package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JdmKash/icg-backend/internal/api"
	"github.com/JdmKash/icg-backend/internal/auth"
	"github.com/JdmKash/icg-backend/internal/cache"
	"github.com/JdmKash/icg-backend/internal/config"
	"github.com/JdmKash/icg-backend/internal/db"
	"github.com/JdmKash/icg-backend/internal/logger"
	"github.com/JdmKash/icg-backend/internal/metrics"
	"github.com/JdmKash/icg-backend/internal/middleware"
	"github.com/JdmKash/icg-backend/internal/repository/postgres"
	"github.com/JdmKash/icg-backend/internal/services"
	"github.com/JdmKash/icg-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	accountSvc := services.NewAccountService(repos.Accounts, repos.Referrals, repos.Receipts, tm)
	ledger := services.NewLedger(repos.Accounts, repos.Referrals, repos.Receipts, repos.Clock, wp)
	boardSvc := services.NewLeaderboardService(repos.Accounts, cache.New(cfg.RedisAddr))

	metrics.Init()
	authMW := middleware.NewAuthMiddleware(tm, cfg.Env)
	r := api.NewRouter(cfg, authMW, accountSvc, ledger, boardSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
