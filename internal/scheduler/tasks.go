package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskImageCleanup deletes a batch of item image objects after an item or
// shop is removed.
const TaskImageCleanup = "catalog.images.cleanup"

// ImageCleanupPayload names the objects to delete. When Prefix is set the
// worker removes everything under it (shop purge); otherwise it removes the
// listed keys.
type ImageCleanupPayload struct {
	ShopID string   `json:"shopId"`
	Keys   []string `json:"keys,omitempty"`
	Prefix string   `json:"prefix,omitempty"`
}

func NewImageCleanupTask(payload ImageCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImageCleanup, data), nil
}

func ParseImageCleanupPayload(task *asynq.Task) (ImageCleanupPayload, error) {
	var payload ImageCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ImageCleanupPayload{}, err
	}
	return payload, nil
}
