package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelops/userd/pkg/api"
	"github.com/kestrelops/userd/pkg/auth"
	"github.com/kestrelops/userd/pkg/config"
	"github.com/kestrelops/userd/pkg/httputil"
	"github.com/kestrelops/userd/pkg/observability"
	"github.com/kestrelops/userd/pkg/store"
	"github.com/kestrelops/userd/pkg/store/postgres"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(observability.ParseLogLevel(cfg.Observability.LogLevel), os.Stdout)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userStore   store.UserStore
		db          *sql.DB
		redisClient *redis.Client
	)
	switch cfg.Store.Type {
	case "postgres":
		pg, err := postgres.New(cfg.Store)
		if err != nil {
			logger.WithError(err).Error("failed to connect to postgres")
			os.Exit(1)
		}
		if err := pg.Migrate(ctx); err != nil {
			logger.WithError(err).Error("failed to run migrations")
			os.Exit(1)
		}
		userStore = pg
		db = pg.DB()
		if cache := pg.Cache(); cache != nil {
			redisClient = cache.Client()
		}
	default:
		userStore = store.NewMemoryStore()
	}
	defer userStore.Close()

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
	if err != nil {
		logger.WithError(err).Error("failed to create token service")
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	server := api.NewServer(userStore, tokens, logger)

	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
	)(server.Router())
	if cfg.Observability.MetricsEnabled {
		handler = observability.HTTPMetricsMiddleware(metrics)(handler)
	}

	apiServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	health := observability.NewHealthChecker(db, redisClient)
	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/healthz", health.Liveness)
	opsMux.HandleFunc("/readyz", health.Readiness)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(opsMux, registry)
	}
	opsServer := &http.Server{
		Addr:    cfg.OpsAddr(),
		Handler: opsMux,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithFields(map[string]interface{}{
			"addr":  apiServer.Addr,
			"store": cfg.Store.Type,
		}).Info("starting api server")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.WithField("addr", opsServer.Addr).Info("starting ops server")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("api server shutdown failed")
		}
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("ops server shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server error")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
