package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"shopfront_backend/platform/config"
)

// Client enqueues background tasks onto the Redis-backed queue. It satisfies
// the catalog service's CleanupEnqueuer.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueImageCleanup schedules deletion of the given image objects.
func (c *Client) EnqueueImageCleanup(ctx context.Context, shopID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	task, err := NewImageCleanupTask(ImageCleanupPayload{ShopID: shopID, Keys: keys})
	if err != nil {
		return fmt.Errorf("build image cleanup task: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue image cleanup: %w", err)
	}
	return nil
}

// EnqueueShopImagePurge schedules removal of every image stored under the
// shop's prefix.
func (c *Client) EnqueueShopImagePurge(ctx context.Context, shopID string) error {
	task, err := NewImageCleanupTask(ImageCleanupPayload{ShopID: shopID, Prefix: shopID + "/"})
	if err != nil {
		return fmt.Errorf("build shop image purge task: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue shop image purge: %w", err)
	}
	return nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, errors.New("redis url is not configured")
	}
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	opt := asynq.RedisClientOpt{
		Addr:     parsed.Addr,
		Username: parsed.Username,
		Password: parsed.Password,
		DB:       parsed.DB,
	}
	if parsed.TLSConfig != nil {
		tlsConfig := parsed.TLSConfig.Clone()
		if tlsInsecure {
			tlsConfig.InsecureSkipVerify = true
		}
		opt.TLSConfig = tlsConfig
	}
	return opt, nil
}
