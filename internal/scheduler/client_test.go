package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerConfig struct {
	redisURL string
}

func (c schedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return "test-queue" }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) (*Client, *asynq.Inspector) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := schedulerConfig{redisURL: "redis://" + mr.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { inspector.Close() })
	return client, inspector
}

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestEnqueueImageCleanup(t *testing.T) {
	client, inspector := newTestClient(t)

	err := client.EnqueueImageCleanup(context.Background(), "shop-1", []string{"shop-1/items/a.png", "shop-1/items/b.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := inspector.ListPendingTasks("test-queue")
	if err != nil {
		t.Fatalf("failed to list pending tasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskImageCleanup {
		t.Fatalf("unexpected task type: %s", pending[0].Type)
	}

	payload, err := ParseImageCleanupPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.ShopID != "shop-1" {
		t.Fatalf("unexpected shop id: %s", payload.ShopID)
	}
	if len(payload.Keys) != 2 || payload.Keys[0] != "shop-1/items/a.png" {
		t.Fatalf("unexpected keys: %v", payload.Keys)
	}
	if payload.Prefix != "" {
		t.Fatalf("keyed cleanup should not carry a prefix, got %q", payload.Prefix)
	}
}

func TestEnqueueImageCleanup_NoKeysNoTask(t *testing.T) {
	client, inspector := newTestClient(t)

	if err := client.EnqueueImageCleanup(context.Background(), "shop-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pending, err := inspector.ListPendingTasks("test-queue")
	if err != nil {
		t.Fatalf("failed to list pending tasks: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no tasks, got %d", len(pending))
	}
}

func TestEnqueueShopImagePurge(t *testing.T) {
	client, inspector := newTestClient(t)

	if err := client.EnqueueShopImagePurge(context.Background(), "shop-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := inspector.ListPendingTasks("test-queue")
	if err != nil {
		t.Fatalf("failed to list pending tasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}

	payload, err := ParseImageCleanupPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.Prefix != "shop-9/" {
		t.Fatalf("unexpected prefix: %q", payload.Prefix)
	}
	if len(payload.Keys) != 0 {
		t.Fatalf("purge should not carry keys, got %v", payload.Keys)
	}
}
