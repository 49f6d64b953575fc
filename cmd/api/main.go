package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/josh-kwaku/vault-ledger/internal/config"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/josh-kwaku/vault-ledger/internal/ratelimit"
	"github.com/josh-kwaku/vault-ledger/internal/repository"
	"github.com/josh-kwaku/vault-ledger/internal/service"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

const serviceName = "vault-ledger-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(serviceName, cfg.LogLevel, cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	primary, err := connectDB(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		return fmt.Errorf("primary database: %w", err)
	}
	defer primary.Close()

	if cfg.RunMigrations {
		if err := repository.Migrate(primary, cfg.MigrationsPath); err != nil {
			return err
		}
		logger.Info("migrations applied", "path", cfg.MigrationsPath)
	}

	var replicas []*sql.DB
	if cfg.DatabaseReplicaURL != "" {
		replica, err := connectDB(ctx, cfg.DatabaseReplicaURL, pool)
		if err != nil {
			return fmt.Errorf("replica database: %w", err)
		}
		defer replica.Close()
		replicas = append(replicas, replica)
	}
	reader := repository.NewReader(primary, replicas...)

	db := repository.NewDB(primary, repository.BreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	})

	users := repository.NewUserRepository(primary)
	idempotency := repository.NewIdempotencyRepository(primary)
	store := repository.NewLedgerStore(db,
		repository.NewAccountRepository(primary),
		repository.NewTransactionRepository(reader),
	)
	ledgerSvc := ledger.NewService(store, users, cfg.AccountNumberMaxAttempts)

	var limiter *ratelimit.Limiter
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		limiter = ratelimit.NewLimiter(client, cfg.RateLimitPerMinute, time.Minute)
		logger.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMinute)
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	janitor := service.NewJanitor(idempotency, logger, cfg.JanitorInterval)
	go janitor.Start(ctx)

	mux := routes(cfg, routeDeps{
		db:          primary,
		ledger:      ledgerSvc,
		users:       users,
		idempotency: idempotency,
		limiter:     limiter,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(mux, serviceName),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func connectDB(ctx context.Context, dsn string, pool repository.PoolConfig) (*sql.DB, error) {
	var err error
	for i := range 30 {
		var db *sql.DB
		if db, err = repository.NewPostgresDB(ctx, dsn, pool); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connectDB: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
