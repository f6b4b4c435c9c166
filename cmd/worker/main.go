package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shopfront_backend/internal/adapters/storage"
	"shopfront_backend/internal/scheduler"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	if !cfg.IsMinIOEnabled() {
		panic("MINIO_ENDPOINT is required for the cleanup worker")
	}
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, storageSvc, cfg.GetMinioBucketItemImages(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- worker.Run()
	}()

	select {
	case <-ctx.Done():
		worker.Shutdown()
	case err := <-srvErr:
		if err != nil {
			log.Error("worker error", "error", err)
			panic("worker error: " + err.Error())
		}
	}
}
