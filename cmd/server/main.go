package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/cache"
	"github.com/matthewbaird/admingen/internal/config"
	"github.com/matthewbaird/admingen/internal/eventbus"
	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/history"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/metrics"
	"github.com/matthewbaird/admingen/internal/server"
)

const memoryCacheSize = 256

func main() {
	os.Exit(start(os.Stderr))
}

// start returns the exit code instead of exiting so deferred calls, the
// logger flush among them, run first.
func start(stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Errorw("server error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	db, err := history.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := history.NewSQLStore(db)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("running schema migration: %w", err)
	}
	log.Infow("database migrated successfully", "dsn", cfg.DatabaseURL)

	var artifacts cache.Cache = cache.NewMemoryCache(memoryCacheSize)
	if cfg.RedisEnabled() {
		client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		artifacts = cache.NewRedisCache(client, cfg.CacheTTL)
		log.Infow("using redis artifact cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	m := metrics.New()

	bus := eventbus.New(256)
	bus.Subscribe("metrics", eventbus.NewMetricsConsumer(m))
	bus.Subscribe("log", eventbus.NewLogConsumer())
	// runs after the server has stopped so in-flight events are counted
	bus.Start(context.WithoutCancel(ctx))
	defer bus.Stop()

	gen := generate.New(artifact.Default(),
		generate.WithCache(artifacts),
		generate.WithPublisher(bus),
		generate.WithHistory(store),
		generate.WithMetrics(m),
	)

	return server.Run(ctx, server.Config{
		Port:           cfg.Port,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
		Generator:      gen,
		History:        store,
		Metrics:        m,
	})
}
