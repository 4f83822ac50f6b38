package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankchat/internal/adapter/http"
	"github.com/iho/bankchat/internal/adapter/http/handler"
	"github.com/iho/bankchat/internal/adapter/http/middleware"
	fileRepo "github.com/iho/bankchat/internal/adapter/repository/file"
	memoryRepo "github.com/iho/bankchat/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bankchat/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankchat/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/bankchat/internal/adapter/repository/sqlite"
	"github.com/iho/bankchat/internal/infrastructure/config"
	"github.com/iho/bankchat/internal/infrastructure/idgen"
	"github.com/iho/bankchat/internal/infrastructure/logger"
	"github.com/iho/bankchat/internal/infrastructure/metrics"
	"github.com/iho/bankchat/internal/infrastructure/notify"
	"github.com/iho/bankchat/internal/infrastructure/postgres"
	"github.com/iho/bankchat/internal/infrastructure/redis"
	"github.com/iho/bankchat/internal/usecase"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.close()

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go func() {
		if err := a.conversation.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("conversation worker stopped")
		}
	}()

	if a.rateLimiter != nil {
		go cleanupVisitors(workerCtx, a.rateLimiter, log)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired server before it starts listening.
type app struct {
	handler      http.Handler
	store        *usecase.AccountStore
	conversation *usecase.Conversation
	rateLimiter  *middleware.RateLimiter
	closers      []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires storage, use cases and the router. A nil reg registers
// metrics with the default registry.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	var registerer prometheus.Registerer
	metricsHandler := promhttp.Handler()
	if reg != nil {
		registerer = reg
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	m := metrics.New(registerer)

	snapshots, checks, closeStore, err := openSnapshotStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	ids := idgen.NewULIDGenerator()

	store, err := usecase.NewAccountStore(ctx, usecase.AccountStoreConfig{
		Snapshots: snapshots,
		IDGen:     ids,
		Notifier:  notify.Multi{notify.NewLogNotifier(log), notify.ContextNotifier{}},
		Recorder:  m,
		Logger:    log,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	a.store = store

	a.conversation = usecase.NewConversation(usecase.ConversationConfig{
		Resolver:  usecase.NewChatResolver(store, log),
		IDGen:     ids,
		Recorder:  m,
		Logger:    log,
		Delay:     cfg.ChatDelay,
		QueueSize: cfg.ChatQueueSize,
	})

	routerCfg := httpAdapter.RouterConfig{
		SessionHandler: handler.NewSessionHandler(store),
		AccountHandler: handler.NewAccountHandler(store),
		BankingHandler: handler.NewBankingHandler(store),
		ChatHandler:    handler.NewChatHandler(a.conversation),
		LedgerHandler:  handler.NewLedgerHandler(usecase.NewReconciliationUseCase(store)),
		HealthHandler:  handler.NewHealthHandler(checks),
		MetricsHandler: metricsHandler,
		Logger:         log,
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimit(m.RateLimitHits.Inc)
		routerCfg.RateLimiter = a.rateLimiter
	}

	if cfg.IdempotencyEnabled {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis for idempotency: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(client)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
		log.Info().Dur("ttl", cfg.IdempotencyTTL).Msg("idempotency enabled")
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

// openSnapshotStore connects the configured backend. The returned checks
// feed the readiness endpoint.
func openSnapshotStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (usecase.SnapshotStore, map[string]handler.Pinger, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, accounts are lost on restart")
		return memoryRepo.NewSnapshotStore(), nil, noop, nil

	case config.StorageFile:
		store, err := fileRepo.NewSnapshotStore(cfg.StorageDir, cfg.StorageSlot, log)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("path", store.Path()).Msg("using file storage")
		return store, nil, noop, nil

	case config.StorageSQLite:
		store, err := sqliteRepo.Open(filepath.Join(cfg.StorageDir, "bankchat.db"), cfg.StorageSlot, log)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("dir", cfg.StorageDir).Msg("using sqlite storage")
		return store, map[string]handler.Pinger{"sqlite": store}, func() { _ = store.Close() }, nil

	case config.StorageRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")
		store := redisRepo.NewSnapshotStore(client, cfg.StorageSlot)
		return store, map[string]handler.Pinger{"redis": store}, closeRedis(client), nil

	case config.StoragePostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, nil, nil, err
		}
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")
		store := postgresRepo.NewSnapshotStore(pool, cfg.StorageSlot, log)
		return store, map[string]handler.Pinger{"postgres": store}, pool.Close, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func closeRedis(client *goredis.Client) func() {
	return func() { _ = client.Close() }
}

func cleanupVisitors(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(rateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(3 * rateLimitCleanupInterval); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiter visitors cleaned up")
			}
		}
	}
}
