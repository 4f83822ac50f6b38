package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/adapter/http/handler"
	"github.com/iho/bankchat/internal/adapter/http/middleware"
	"github.com/iho/bankchat/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler *handler.SessionHandler
	AccountHandler *handler.AccountHandler
	BankingHandler *handler.BankingHandler
	ChatHandler    *handler.ChatHandler
	LedgerHandler  *handler.LedgerHandler
	HealthHandler  *handler.HealthHandler

	// Optional.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	MetricsHandler   http.Handler

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Notifications)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Session
		r.Route("/session", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Login)
			r.Get("/", cfg.SessionHandler.Status)
			r.Delete("/", cfg.SessionHandler.Logout)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Register)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/me", cfg.AccountHandler.Me)
			r.Get("/me/transactions", cfg.AccountHandler.Transactions)
			r.Get("/{id}/exists", cfg.AccountHandler.Exists)
		})

		// Money movement on the current account
		r.Post("/deposits", cfg.BankingHandler.Deposit)
		r.Post("/withdrawals", cfg.BankingHandler.Withdraw)
		r.Post("/transfers", cfg.BankingHandler.Transfer)

		// Chat
		r.Route("/chat", func(r chi.Router) {
			r.Post("/", cfg.ChatHandler.Send)
			r.Get("/", cfg.ChatHandler.Transcript)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
