package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/idempotency"
	memsubscriberrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/subscriberrepo"
	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/idempotency"
	pgsubscriberrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/subscriberrepo"
	redisidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/redis/idempotency"
	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	platformclock "github.com/Overland-East-Bay/newsletter-api/internal/platform/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/config"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logging"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
	subscriberrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

const pruneInterval = time.Hour

func main() {
	cfg, err := config.LoadFromEnv(config.DefaultDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment.String(), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode logs a fatal run error and flushes the logger before the process exits.
func exitCode(logger *zap.Logger, err error) int {
	if err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		return 1
	}
	return 0
}

// run wires adapters from cfg and serves until SIGINT/SIGTERM.
func run(cfg config.Settings, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		subscriberRepo subscriberrepoport.Repository
		idemStore      idempotencyport.Store
		pgIdem         *pgidempotency.Store
		cleanups       []func()
	)
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database.ConnectionString().Expose(), postgres.PoolOptions{})
		if err != nil {
			return fmt.Errorf("invalid postgres config: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		subscriberRepo = pgsubscriberrepo.NewRepo(pool)

		if cfg.Idempotency.Backend == config.BackendPostgres {
			pgIdem = pgidempotency.NewStore(pool, cfg.Idempotency.TTL)
			idemStore = pgIdem
		}
	default:
		subscriberRepo = memsubscriberrepo.NewRepo()
	}

	switch cfg.Idempotency.Backend {
	case config.BackendMemory:
		idemStore = memidempotency.NewStoreWithTTL(cfg.Idempotency.TTL, clk)
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Idempotency.RedisAddr})
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		idemStore = redisidempotency.NewStore(rdb, cfg.Idempotency.TTL)
	}

	api := httpapi.NewServer(subscriptions.NewService(subscriberRepo, clk), idemStore)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{Logger: logger})

	srv := &http.Server{
		Addr:              cfg.Application.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if pgIdem != nil && cfg.Idempotency.TTL > 0 {
		go pruneIdempotencyKeys(ctx, pgIdem, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Backend),
			zap.String("idempotency", cfg.Idempotency.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pruneIdempotencyKeys(ctx context.Context, store *pgidempotency.Store, logger *zap.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx)
			if err != nil {
				logger.Warn("Idempotency prune failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Pruned idempotency keys", zap.Int64("deleted", n))
			}
		}
	}
}
