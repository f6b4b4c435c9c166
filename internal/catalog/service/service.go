// Package service contains the catalog business logic: cache-first reads,
// the legacy swallow-all read wrapper, and the write paths that keep the
// cache honest by invalidating after every successful mutation.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shopfront_backend/internal/catalog/cache"
	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/repository"
	"shopfront_backend/platform/apperr"
	"shopfront_backend/platform/logger"
)

// Fetcher executes catalog queries against the backing store.
type Fetcher interface {
	FetchPromoted(ctx context.Context, q domain.Query) (domain.FeaturedResult, error)
	FetchStandard(ctx context.Context, q domain.Query) (domain.PagedResult, error)
}

// Cache is the result cache the read paths consult before fetching.
type Cache interface {
	GetPromoted(q domain.Query) (domain.FeaturedResult, bool)
	SetPromoted(q domain.Query, res domain.FeaturedResult)
	GetStandardPage(q domain.Query) (domain.PagedResult, bool)
	SetStandardPage(q domain.Query, res domain.PagedResult)
	GetAssembledUpToPage(q domain.Query, maxPage int) (cache.AssembledResult, bool)
	Invalidate(shopID string)
	InvalidateAll()
}

// CleanupEnqueuer schedules deletion of orphaned item images. Optional:
// a nil enqueuer means images are left behind (acceptable in dev setups
// without a task queue).
type CleanupEnqueuer interface {
	EnqueueImageCleanup(ctx context.Context, shopID string, keys []string) error
	EnqueueShopImagePurge(ctx context.Context, shopID string) error
}

// Service implements the catalog use cases.
type Service struct {
	fetcher Fetcher
	cache   Cache
	repo    repository.Repository
	cleanup CleanupEnqueuer
	log     *logger.Logger
}

// New creates the catalog service. cleanup may be nil.
func New(fetcher Fetcher, c Cache, repo repository.Repository, cleanup CleanupEnqueuer, log *logger.Logger) *Service {
	return &Service{fetcher: fetcher, cache: c, repo: repo, cleanup: cleanup, log: log}
}

// FetchFeatured returns the shop's promoted items, cache-first. Errors
// propagate so callers can distinguish "no items" from "fetch failed".
func (s *Service) FetchFeatured(ctx context.Context, q domain.Query) (domain.FeaturedResult, error) {
	if res, ok := s.cache.GetPromoted(q); ok {
		return res, nil
	}

	res, err := s.fetcher.FetchPromoted(ctx, q)
	if err != nil {
		return domain.FeaturedResult{}, err
	}

	// A result arriving after the caller's context expired must not be
	// written: the key may have been invalidated or refreshed meanwhile,
	// and the caller already saw an error.
	if ctx.Err() == nil {
		s.cache.SetPromoted(q, res)
	}
	return res, nil
}

// FetchRegular returns one page of the shop's standard catalog, cache-first.
func (s *Service) FetchRegular(ctx context.Context, q domain.Query) (domain.PagedResult, error) {
	if res, ok := s.cache.GetStandardPage(q); ok {
		return res, nil
	}

	res, err := s.fetcher.FetchStandard(ctx, q)
	if err != nil {
		return domain.PagedResult{}, err
	}

	if ctx.Err() == nil {
		s.cache.SetStandardPage(q, res)
	}
	return res, nil
}

// FetchAll is the legacy combined read. It never fails: any error degrades
// to an empty page so old storefront clients keep rendering. New consumers
// should use FetchFeatured/FetchRegular, which propagate errors and let the
// UI offer a retry.
func (s *Service) FetchAll(ctx context.Context, q domain.Query) domain.PagedResult {
	res, err := s.FetchRegular(ctx, q)
	if err != nil {
		s.log.Warn("legacy catalog read degraded to empty result",
			"shop_id", q.ShopID, "page", q.Page, "error", err)
		return domain.PagedResult{Items: []domain.Item{}, HasMore: false, Page: q.Page}
	}
	return res
}

// FetchUpToPage returns the concatenation of pages 1..maxPage. Pages already
// cached are reused as a contiguous prefix; only the missing tail is
// fetched. Infinite-scroll restores use this after a client reload.
func (s *Service) FetchUpToPage(ctx context.Context, q domain.Query, maxPage int) (domain.PagedResult, error) {
	if maxPage < 1 {
		return domain.PagedResult{}, apperr.Validation("page must be at least 1")
	}

	var items []domain.Item
	hasMore := false
	next := 1
	if assembled, ok := s.cache.GetAssembledUpToPage(q, maxPage); ok {
		items = assembled.Items
		hasMore = assembled.HasMore
		next = assembled.LastCachedPage + 1
	}

	for page := next; page <= maxPage; page++ {
		pageQuery := q
		pageQuery.Page = page
		res, err := s.FetchRegular(ctx, pageQuery)
		if err != nil {
			return domain.PagedResult{}, err
		}
		items = append(items, res.Items...)
		hasMore = res.HasMore
		if !res.HasMore {
			break
		}
	}

	return domain.PagedResult{Items: items, HasMore: hasMore, Page: maxPage}, nil
}

// StorefrontView is the initial render payload: promoted items plus the
// first standard page.
type StorefrontView struct {
	Featured domain.FeaturedResult
	Catalog  domain.PagedResult
}

// FetchStorefront loads the featured set and page 1 concurrently.
func (s *Service) FetchStorefront(ctx context.Context, q domain.Query) (StorefrontView, error) {
	var view StorefrontView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		featured, err := s.FetchFeatured(gctx, domain.Query{
			ShopID: q.ShopID, SearchTerm: q.SearchTerm, Category: q.Category,
		})
		if err != nil {
			return err
		}
		view.Featured = featured
		return nil
	})
	g.Go(func() error {
		pageQuery := q
		pageQuery.Page = 1
		page, err := s.FetchRegular(gctx, pageQuery)
		if err != nil {
			return err
		}
		view.Catalog = page
		return nil
	})

	if err := g.Wait(); err != nil {
		return StorefrontView{}, err
	}
	return view, nil
}

// CreateItem inserts a new item and invalidates the shop's cached results.
func (s *Service) CreateItem(ctx context.Context, params repository.CreateItemParams) (domain.Item, error) {
	rec, err := s.repo.CreateItem(ctx, params)
	if err != nil {
		return domain.Item{}, err
	}
	s.cache.Invalidate(params.ShopID.String())
	return s.repairStored(rec)
}

// UpdateItem applies a partial update and invalidates the shop's cache.
func (s *Service) UpdateItem(ctx context.Context, params repository.UpdateItemParams) (domain.Item, error) {
	rec, err := s.repo.UpdateItem(ctx, params)
	if err != nil {
		return domain.Item{}, err
	}
	s.cache.Invalidate(params.ShopID.String())
	return s.repairStored(rec)
}

// TogglePromoted flips an item between the promoted and standard sets.
func (s *Service) TogglePromoted(ctx context.Context, shopID, id uuid.UUID) (domain.Item, error) {
	rec, err := s.repo.GetItemByID(ctx, shopID, id)
	if err != nil {
		return domain.Item{}, err
	}
	flipped := !rec.Promoted
	return s.UpdateItem(ctx, repository.UpdateItemParams{
		ID: id, ShopID: shopID, Promoted: &flipped,
	})
}

// DeleteItem removes an item, invalidates the shop's cache, and schedules
// cleanup of the item's image object.
func (s *Service) DeleteItem(ctx context.Context, shopID, id uuid.UUID) error {
	imageRef, err := s.repo.DeleteItem(ctx, shopID, id)
	if err != nil {
		return err
	}
	s.cache.Invalidate(shopID.String())
	if imageRef != nil {
		s.enqueueCleanup(ctx, shopID.String(), []string{*imageRef})
	}
	return nil
}

// RenameCategory moves every item of a shop between category labels and
// invalidates the shop's cache. Renaming to or from an empty label is
// rejected; a rename that matches nothing is a not-found.
func (s *Service) RenameCategory(ctx context.Context, shopID uuid.UUID, from, to string) error {
	if from == "" || to == "" {
		return apperr.Validation("category names must be non-empty")
	}

	affected, err := s.repo.RenameCategory(ctx, shopID, from, to)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound(fmt.Sprintf("category %q has no items", from))
	}
	s.cache.Invalidate(shopID.String())
	return nil
}

// ListCategories returns the distinct category labels of a shop's items.
func (s *Service) ListCategories(ctx context.Context, shopID uuid.UUID) ([]string, error) {
	return s.repo.ListCategories(ctx, shopID)
}

// GetItem returns a single validated item.
func (s *Service) GetItem(ctx context.Context, shopID, id uuid.UUID) (domain.Item, error) {
	rec, err := s.repo.GetItemByID(ctx, shopID, id)
	if err != nil {
		return domain.Item{}, err
	}
	return s.repairStored(rec)
}

// PurgeShop removes all of a shop's items and cached results. The shops
// module triggers this through the event bus when a shop is deleted.
func (s *Service) PurgeShop(ctx context.Context, shopID uuid.UUID) error {
	if _, err := s.repo.DeleteShopItems(ctx, shopID); err != nil {
		return err
	}
	s.cache.Invalidate(shopID.String())
	if s.cleanup != nil {
		// A prefix purge also catches uploads that were never attached to
		// an item.
		if err := s.cleanup.EnqueueShopImagePurge(ctx, shopID.String()); err != nil {
			s.log.Error("failed to enqueue shop image purge", "shop_id", shopID, "error", err)
		}
	}
	return nil
}

// repairStored validates a record coming back from our own write path. A
// failure here means the row violates the write-side constraints and is a
// defect, not a user error.
func (s *Service) repairStored(rec domain.Record) (domain.Item, error) {
	item, err := domain.RepairItem(rec)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedRecord) {
			return domain.Item{}, apperr.Wrap(apperr.KindInternal, "stored item failed validation", err)
		}
		return domain.Item{}, err
	}
	return item, nil
}

// enqueueCleanup is best-effort: the write already succeeded, so a queue
// failure only leaks an object, it never fails the request.
func (s *Service) enqueueCleanup(ctx context.Context, shopID string, keys []string) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.EnqueueImageCleanup(ctx, shopID, keys); err != nil {
		s.log.Error("failed to enqueue image cleanup", "shop_id", shopID, "error", err)
	}
}
