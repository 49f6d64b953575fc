package main

import (
	"database/sql"
	"net/http"

	"github.com/josh-kwaku/vault-ledger/internal/config"
	"github.com/josh-kwaku/vault-ledger/internal/handler"
	"github.com/josh-kwaku/vault-ledger/internal/middleware"
	"github.com/josh-kwaku/vault-ledger/internal/ratelimit"
	"github.com/josh-kwaku/vault-ledger/internal/repository"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

type routeDeps struct {
	db          *sql.DB
	ledger      *ledger.Service
	users       *repository.UserRepository
	idempotency *repository.IdempotencyRepository
	limiter     *ratelimit.Limiter
}

func routes(cfg *config.Config, d routeDeps) http.Handler {
	health := handler.NewHealthHandler(d.db, nil)
	if d.limiter != nil {
		health = handler.NewHealthHandler(d.db, d.limiter)
	}
	authH := handler.NewAuthHandler(d.users, cfg.JWTSecret, cfg.JWTExpiry)
	accounts := handler.NewAccountHandler(d.ledger, cfg.HistoryMaxPageSize)
	txns := handler.NewTransactionHandler(d.ledger)
	dashboard := handler.NewDashboardHandler(d.ledger)

	protected := middleware.Auth(cfg.JWTSecret)
	idempotent := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, protected, middleware.Idempotency(d.idempotency, cfg.IdempotencyTTL))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(handler.OpenAPISpec))

	mux.HandleFunc("POST /api/v1/auth/login", authH.Login)

	mux.Handle("POST /api/v1/accounts", protected(http.HandlerFunc(accounts.Open)))
	mux.Handle("GET /api/v1/accounts", protected(http.HandlerFunc(accounts.List)))
	mux.Handle("GET /api/v1/accounts/{number}", protected(http.HandlerFunc(accounts.Get)))
	mux.Handle("DELETE /api/v1/accounts/{number}", protected(http.HandlerFunc(accounts.Close)))
	mux.Handle("GET /api/v1/accounts/{number}/transactions", protected(http.HandlerFunc(accounts.History)))
	mux.Handle("GET /api/v1/dashboard", protected(http.HandlerFunc(dashboard.Get)))

	mux.Handle("POST /api/v1/transactions/deposit", idempotent(txns.Deposit))
	mux.Handle("POST /api/v1/transactions/withdraw", idempotent(txns.Withdraw))
	mux.Handle("POST /api/v1/transactions/transfer", idempotent(txns.Transfer))

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery,
		middleware.Tracing,
		middleware.Logging,
	}
	if d.limiter != nil {
		chain = append(chain, middleware.RateLimit(d.limiter))
	}
	return middleware.Chain(mux, chain...)
}
