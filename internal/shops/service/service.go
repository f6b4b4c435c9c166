// Package service contains the shop registry business logic.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"shopfront_backend/internal/events"
	"shopfront_backend/internal/shops/repository"
	"shopfront_backend/platform/apperr"
	"shopfront_backend/platform/logger"
)

// ThemeRegistry validates theme keys against the shipped manifest.
type ThemeRegistry interface {
	Exists(key string) bool
	DefaultKey() string
}

// Service implements the shop registry use cases.
type Service struct {
	repo   repository.Repository
	themes ThemeRegistry
	bus    events.Bus
	log    *logger.Logger
}

// New creates the shops service.
func New(repo repository.Repository, themes ThemeRegistry, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, themes: themes, bus: bus, log: log}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateParams are the inputs for registering a shop. ThemeKey and Currency
// fall back to defaults when empty.
type CreateParams struct {
	Slug     string
	Name     string
	ThemeKey string
	Currency string
}

// Create registers a new shop and publishes shops.created.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Shop, error) {
	slug := strings.ToLower(strings.TrimSpace(params.Slug))
	if !slugPattern.MatchString(slug) {
		return repository.Shop{}, apperr.Validation("slug must be lowercase letters, digits and hyphens")
	}

	themeKey := params.ThemeKey
	if themeKey == "" {
		themeKey = s.themes.DefaultKey()
	} else if !s.themes.Exists(themeKey) {
		return repository.Shop{}, apperr.Validation(fmt.Sprintf("unknown theme %q", themeKey))
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "EUR"
	}

	shop, err := s.repo.Create(ctx, repository.CreateParams{
		Slug:     slug,
		Name:     strings.TrimSpace(params.Name),
		ThemeKey: themeKey,
		Currency: currency,
	})
	if err != nil {
		return repository.Shop{}, err
	}

	s.bus.Publish(ctx, events.ShopCreated{
		BaseEvent: events.NewBaseEvent(),
		ShopID:    shop.ID,
		Slug:      shop.Slug,
		Name:      shop.Name,
	})
	return shop, nil
}

// Get returns one shop by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Shop, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns one shop by its public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (repository.Shop, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// ResolveSlug maps a public slug to the shop id. The catalog module uses
// this for its storefront routes.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	shop, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return uuid.Nil, err
	}
	return shop.ID, nil
}

// List returns all registered shops.
func (s *Service) List(ctx context.Context) ([]repository.Shop, error) {
	return s.repo.List(ctx)
}

// UpdateParams are the inputs for updating a shop. Nil fields are unchanged.
type UpdateParams struct {
	ID       uuid.UUID
	Name     *string
	ThemeKey *string
	Currency *string
}

// Update applies a partial update, validating any new theme key, and
// publishes shops.theme_changed when the theme switches.
func (s *Service) Update(ctx context.Context, params UpdateParams) (repository.Shop, error) {
	if params.ThemeKey != nil && !s.themes.Exists(*params.ThemeKey) {
		return repository.Shop{}, apperr.Validation(fmt.Sprintf("unknown theme %q", *params.ThemeKey))
	}
	if params.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*params.Currency))
		params.Currency = &cur
	}

	shop, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:       params.ID,
		Name:     params.Name,
		ThemeKey: params.ThemeKey,
		Currency: params.Currency,
	})
	if err != nil {
		return repository.Shop{}, err
	}

	if params.ThemeKey != nil {
		s.bus.Publish(ctx, events.ShopThemeChanged{
			BaseEvent: events.NewBaseEvent(),
			ShopID:    shop.ID,
			ThemeKey:  shop.ThemeKey,
		})
	}
	return shop, nil
}

// Delete removes a shop and publishes shops.deleted synchronously so the
// catalog purge (items, cached results, images) completes before the
// deletion is reported to the caller.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	shop, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	event := events.ShopDeleted{
		BaseEvent: events.NewBaseEvent(),
		ShopID:    shop.ID,
		Slug:      shop.Slug,
	}
	if err := s.bus.PublishSync(ctx, event); err != nil {
		// The shop row is gone; a failed purge leaves orphans to clean up
		// later, it does not undo the deletion.
		s.log.Error("shop deletion cleanup failed", "shop_id", shop.ID, "error", err)
	}
	return nil
}
