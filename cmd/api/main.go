package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront_backend/internal/adapters/storage"
	"shopfront_backend/internal/catalog"
	catalogsvc "shopfront_backend/internal/catalog/service"
	"shopfront_backend/internal/events"
	apphttp "shopfront_backend/internal/http"
	"shopfront_backend/internal/http/router"
	"shopfront_backend/internal/scheduler"
	"shopfront_backend/internal/shops"
	"shopfront_backend/internal/themes"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/db"
	"shopfront_backend/platform/logger"
	"shopfront_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for item images and posters (MinIO). Optional: without
	// it the presign endpoints respond 503 and image cleanup is skipped.
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, svc, "item-images", cfg.GetMinioBucketItemImages())
		ensureBucket(ctx, log, svc, "shop-posters", cfg.GetMinioBucketShopPosters())
		storageSvc = svc
		log.Info(
			"storage service initialized",
			"itemImagesBucket", cfg.GetMinioBucketItemImages(),
			"shopPostersBucket", cfg.GetMinioBucketShopPosters(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; image uploads disabled")
	}

	cleanupClient, closeCleanup := initCleanupClient(cfg, log)
	if closeCleanup != nil {
		defer closeCleanup()
	}

	// Storefront theme registry, loaded once from the manifest
	themeRegistry, err := themes.Load(cfg.GetThemesManifestPath())
	if err != nil {
		log.Error("failed to load theme manifest", "error", err, "path", cfg.GetThemesManifestPath())
		panic("failed to load theme manifest: " + err.Error())
	}
	log.Info("theme registry loaded", "themes", len(themeRegistry.List()))

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	shopsModule := shops.NewModule(pool, themeRegistry, eventBus, cfg, log, val)
	catalogModule := catalog.NewModule(pool, storageSvc, shopsModule.Service(), cleanupClient, val, cfg, log)
	catalogModule.RegisterHandlers(eventBus)
	themesModule := themes.NewModule(themeRegistry)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			shopsModule,
			catalogModule,
			themesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCleanupClient(cfg config.SchedulerConfig, log *logger.Logger) (catalogsvc.CleanupEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background image cleanup disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
