// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"shopfront_backend/platform/events"
	"shopfront_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = func(log *logger.Logger) *InMemoryBus { return events.NewInMemoryBus(log) }
)

// ShopCreated is published when a new shop is registered.
type ShopCreated struct {
	BaseEvent
	ShopID uuid.UUID `json:"shopId"`
	Slug   string    `json:"slug"`
	Name   string    `json:"name"`
}

func (e ShopCreated) EventName() string { return "shops.created" }

// ShopDeleted is published after a shop row is removed. The catalog module
// subscribes to purge the shop's items, cached results, and stored images.
type ShopDeleted struct {
	BaseEvent
	ShopID uuid.UUID `json:"shopId"`
	Slug   string    `json:"slug"`
}

func (e ShopDeleted) EventName() string { return "shops.deleted" }

// ShopThemeChanged is published when a shop switches storefront theme.
type ShopThemeChanged struct {
	BaseEvent
	ShopID   uuid.UUID `json:"shopId"`
	ThemeKey string    `json:"themeKey"`
}

func (e ShopThemeChanged) EventName() string { return "shops.theme_changed" }
