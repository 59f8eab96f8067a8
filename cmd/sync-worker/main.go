package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/drivemap/drivemap-backend/internal/businesses"
	syncsvc "github.com/drivemap/drivemap-backend/internal/sync"
	"github.com/drivemap/drivemap-backend/pkg/config"
	"github.com/drivemap/drivemap-backend/pkg/db"
	"github.com/drivemap/drivemap-backend/pkg/logger"
	"github.com/drivemap/drivemap-backend/pkg/metrics"
	"github.com/drivemap/drivemap-backend/pkg/migrate"
	"github.com/drivemap/drivemap-backend/pkg/overpass"
	"github.com/drivemap/drivemap-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	overpassClient := overpass.NewClient(
		overpass.WithBaseURL(cfg.Overpass.BaseURL),
		overpass.WithTimeout(cfg.Overpass.HTTPTimeout),
	)

	lockFactory := func(region string) (syncsvc.Lock, error) {
		return syncsvc.NewRegionLock(redisClient, redisClient.SyncLockKey(region), cfg.Sync.LockTTL)
	}

	service, err := syncsvc.NewService(
		overpassClient,
		businesses.NewRepository(dbClient.DB()),
		lockFactory,
		logg,
		syncMetrics,
		cfg.Sync.DefaultRegion,
		cfg.Overpass.QueryTimeout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"region":      cfg.Sync.DefaultRegion,
		"interval":    cfg.Sync.Interval.String(),
	})
	logg.Info(ctx, "starting sync worker")

	runOnce(ctx, logg, service, cfg.Sync.DefaultRegion)

	ticker := time.NewTicker(cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "sync worker shutting down gracefully")
			return
		case <-ticker.C:
			runOnce(ctx, logg, service, cfg.Sync.DefaultRegion)
		}
	}
}

func runOnce(ctx context.Context, logg *logger.Logger, service syncsvc.Service, region string) {
	synced, err := service.SyncRegion(ctx, region)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logg.Error(ctx, "sync run failed", err)
		return
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"synced": synced}), "sync run complete")
}
