package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"shopfront_backend/internal/adapters/storage"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/logger"
)

// Worker consumes queued tasks. Today that is only image cleanup, which
// keeps object storage from drifting after item and shop deletions.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, storageSvc storage.StorageService, imageBucket string, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues: map[string]int{
			cfg.GetAsynqQueueName(): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{server: server, mux: mux, log: log}
	mux.HandleFunc(TaskImageCleanup, w.handleImageCleanup(storageSvc, imageBucket))
	return w, nil
}

// Run blocks until Shutdown is called.
func (w *Worker) Run() error {
	w.log.Info("task worker starting")
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.log.Info("task worker shutting down")
	w.server.Shutdown()
}

func (w *Worker) handleImageCleanup(storageSvc storage.StorageService, bucket string) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseImageCleanupPayload(task)
		if err != nil {
			return fmt.Errorf("parse image cleanup payload: %v: %w", err, asynq.SkipRetry)
		}

		if payload.Prefix != "" {
			if err := storageSvc.DeletePrefix(ctx, bucket, payload.Prefix); err != nil {
				return fmt.Errorf("delete prefix %q: %w", payload.Prefix, err)
			}
			w.log.Info("purged shop images", "shop_id", payload.ShopID, "prefix", payload.Prefix)
			return nil
		}

		if len(payload.Keys) == 0 {
			return nil
		}
		if err := storageSvc.DeleteObjects(ctx, bucket, payload.Keys); err != nil {
			return fmt.Errorf("delete objects: %w", err)
		}
		w.log.Info("cleaned up item images", "shop_id", payload.ShopID, "count", len(payload.Keys))
		return nil
	}
}
