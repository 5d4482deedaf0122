package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api"
	"github.com/etec-programacion-3/biblioteca-backend/internal/auth"
	"github.com/etec-programacion-3/biblioteca-backend/internal/config"
	"github.com/etec-programacion-3/biblioteca-backend/internal/db"
	"github.com/etec-programacion-3/biblioteca-backend/internal/logger"
	"github.com/etec-programacion-3/biblioteca-backend/internal/metrics"
	"github.com/etec-programacion-3/biblioteca-backend/internal/repository/postgres"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
	"github.com/etec-programacion-3/biblioteca-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
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

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	userSvc := services.NewUserService(repos.Users, repos.AuditLogs, wp, tm)
	bookSvc := services.NewBookService(repos.Books)

	metrics.Init()
	r := api.NewRouter(cfg, bookSvc, userSvc)

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
