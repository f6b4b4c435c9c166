package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"shopfront_backend/internal/catalog/cache"
	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
	"shopfront_backend/internal/catalog/repository"
	"shopfront_backend/platform/apperr"
	"shopfront_backend/platform/logger"
)

type fakeFetcher struct {
	promotedCalls int
	standardCalls int
	featured      domain.FeaturedResult
	pages         map[int]domain.PagedResult
	err           error
}

func (f *fakeFetcher) FetchPromoted(ctx context.Context, q domain.Query) (domain.FeaturedResult, error) {
	f.promotedCalls++
	if f.err != nil {
		return domain.FeaturedResult{}, f.err
	}
	return f.featured, nil
}

func (f *fakeFetcher) FetchStandard(ctx context.Context, q domain.Query) (domain.PagedResult, error) {
	f.standardCalls++
	if f.err != nil {
		return domain.PagedResult{}, f.err
	}
	if res, ok := f.pages[q.Page]; ok {
		return res, nil
	}
	return domain.PagedResult{Page: q.Page}, nil
}

type fakeRepo struct {
	created      []repository.CreateItemParams
	updated      []repository.UpdateItemParams
	deletedItems []uuid.UUID
	renames      int64
	renameErr    error
	categories   []string
	record       domain.Record
	deletedRef   *string
	purgedRefs   []string
	err          error
}

func (r *fakeRepo) QueryItems(ctx context.Context, pred query.Predicate, limit, offset int) ([]domain.Record, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) CreateItem(ctx context.Context, params repository.CreateItemParams) (domain.Record, error) {
	if r.err != nil {
		return domain.Record{}, r.err
	}
	r.created = append(r.created, params)
	return r.record, nil
}

func (r *fakeRepo) UpdateItem(ctx context.Context, params repository.UpdateItemParams) (domain.Record, error) {
	if r.err != nil {
		return domain.Record{}, r.err
	}
	r.updated = append(r.updated, params)
	return r.record, nil
}

func (r *fakeRepo) DeleteItem(ctx context.Context, shopID, id uuid.UUID) (*string, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.deletedItems = append(r.deletedItems, id)
	return r.deletedRef, nil
}

func (r *fakeRepo) DeleteShopItems(ctx context.Context, shopID uuid.UUID) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.purgedRefs, nil
}

func (r *fakeRepo) GetItemByID(ctx context.Context, shopID, id uuid.UUID) (domain.Record, error) {
	if r.err != nil {
		return domain.Record{}, r.err
	}
	return r.record, nil
}

func (r *fakeRepo) RenameCategory(ctx context.Context, shopID uuid.UUID, from, to string) (int64, error) {
	if r.renameErr != nil {
		return 0, r.renameErr
	}
	return r.renames, nil
}

func (r *fakeRepo) ListCategories(ctx context.Context, shopID uuid.UUID) ([]string, error) {
	return r.categories, nil
}

type fakeCleanup struct {
	shopIDs []string
	keys    [][]string
	purged  []string
}

func (c *fakeCleanup) EnqueueImageCleanup(ctx context.Context, shopID string, keys []string) error {
	c.shopIDs = append(c.shopIDs, shopID)
	c.keys = append(c.keys, keys)
	return nil
}

func (c *fakeCleanup) EnqueueShopImagePurge(ctx context.Context, shopID string) error {
	c.purged = append(c.purged, shopID)
	return nil
}

type cacheConfig struct{}

func (cacheConfig) GetCatalogCacheTTL() time.Duration { return 5 * time.Minute }
func (cacheConfig) GetCatalogCacheCapacity() int      { return 50 }

func item(id string) domain.Item {
	return domain.Item{ID: id, Name: "Item " + id, Category: "General", Price: 5, ImageRef: "x"}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func newService(f *fakeFetcher, r *fakeRepo, cl CleanupEnqueuer) *Service {
	log := logger.New("development")
	return New(f, cache.New(cacheConfig{}, log), r, cl, log)
}

func TestFetchRegular_CacheHitSkipsSecondFetch(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]domain.PagedResult{
		1: {Items: []domain.Item{item("a")}, HasMore: true, Page: 1},
	}}
	svc := newService(fetcher, &fakeRepo{}, nil)
	q := domain.Query{ShopID: "shop-1", Page: 1}

	first, err := svc.FetchRegular(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.FetchRegular(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.standardCalls != 1 {
		t.Fatalf("expected single fetch, got %d", fetcher.standardCalls)
	}
	if len(first.Items) != 1 || len(second.Items) != 1 || first.Items[0] != second.Items[0] {
		t.Fatalf("cache hit payload diverged: %+v vs %+v", first, second)
	}
}

func TestFetchRegular_PropagatesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: apperr.Unavailable("store down")}
	svc := newService(fetcher, &fakeRepo{}, nil)

	_, err := svc.FetchRegular(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected propagated unavailable error, got %v", err)
	}
}

func TestFetchAll_SwallowsErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: apperr.Unavailable("store down")}
	svc := newService(fetcher, &fakeRepo{}, nil)

	res := svc.FetchAll(context.Background(), domain.Query{ShopID: "shop-1", Page: 2})
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", res.Items)
	}
	if res.HasMore {
		t.Fatal("degraded result must not claim more pages")
	}
	if res.Page != 2 {
		t.Fatalf("expected requested page echoed, got %d", res.Page)
	}
}

func TestFetchFeatured_StaleResultNotCached(t *testing.T) {
	fetcher := &fakeFetcher{featured: domain.FeaturedResult{Items: []domain.Item{item("a")}}}
	svc := newService(fetcher, &fakeRepo{}, nil)
	q := domain.Query{ShopID: "shop-1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The fake still hands back a result; an expired context means the
	// caller has given up, so the result must not be written.
	if _, err := svc.FetchFeatured(ctx, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.FetchFeatured(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.promotedCalls != 2 {
		t.Fatalf("stale result must not populate the cache, got %d fetches", fetcher.promotedCalls)
	}
}

func TestCreateItem_InvalidatesShopCache(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]domain.PagedResult{1: {Items: []domain.Item{item("a")}, Page: 1}}}
	shopID := uuid.New()
	repo := &fakeRepo{record: domain.Record{ID: "a", Name: strPtr("Tea"), Price: f64Ptr(3)}}
	svc := newService(fetcher, repo, nil)
	q := domain.Query{ShopID: shopID.String(), Page: 1}

	if _, err := svc.FetchRegular(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.CreateItem(context.Background(), repository.CreateItemParams{
		ShopID: shopID, Name: "Tea", Price: 3, Available: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.FetchRegular(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.standardCalls != 2 {
		t.Fatalf("mutation must invalidate cached pages, got %d fetches", fetcher.standardCalls)
	}
}

func TestDeleteItem_SchedulesImageCleanup(t *testing.T) {
	shopID := uuid.New()
	repo := &fakeRepo{deletedRef: strPtr("items/abc.png")}
	cleanup := &fakeCleanup{}
	svc := newService(&fakeFetcher{}, repo, cleanup)

	if err := svc.DeleteItem(context.Background(), shopID, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cleanup.keys) != 1 || cleanup.keys[0][0] != "items/abc.png" {
		t.Fatalf("expected image cleanup enqueued, got %+v", cleanup.keys)
	}
	if cleanup.shopIDs[0] != shopID.String() {
		t.Fatalf("cleanup scoped to wrong shop: %s", cleanup.shopIDs[0])
	}
}

func TestDeleteItem_NoImageNoCleanup(t *testing.T) {
	cleanup := &fakeCleanup{}
	svc := newService(&fakeFetcher{}, &fakeRepo{}, cleanup)

	if err := svc.DeleteItem(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cleanup.keys) != 0 {
		t.Fatalf("no image ref, no cleanup task; got %+v", cleanup.keys)
	}
}

func TestPurgeShop_ClearsItemsCacheAndImages(t *testing.T) {
	shopID := uuid.New()
	fetcher := &fakeFetcher{pages: map[int]domain.PagedResult{
		1: {Items: []domain.Item{item("a")}, HasMore: false, Page: 1},
	}}
	cleanup := &fakeCleanup{}
	svc := newService(fetcher, &fakeRepo{}, cleanup)

	q := domain.Query{ShopID: shopID.String(), Page: 1}
	if _, err := svc.FetchRegular(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.PurgeShop(context.Background(), shopID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cleanup.purged) != 1 || cleanup.purged[0] != shopID.String() {
		t.Fatalf("expected shop image purge enqueued, got %+v", cleanup.purged)
	}

	if _, err := svc.FetchRegular(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.standardCalls != 2 {
		t.Fatalf("expected cache cleared by purge, fetch calls = %d", fetcher.standardCalls)
	}
}

func TestRenameCategory(t *testing.T) {
	shopID := uuid.New()

	t.Run("empty names rejected", func(t *testing.T) {
		svc := newService(&fakeFetcher{}, &fakeRepo{}, nil)
		err := svc.RenameCategory(context.Background(), shopID, "", "Snacks")
		if apperr.GetKind(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("no rows is not found", func(t *testing.T) {
		svc := newService(&fakeFetcher{}, &fakeRepo{renames: 0}, nil)
		err := svc.RenameCategory(context.Background(), shopID, "Ghost", "Snacks")
		if apperr.GetKind(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		fetcher := &fakeFetcher{pages: map[int]domain.PagedResult{1: {Page: 1}}}
		svc := newService(fetcher, &fakeRepo{renames: 3}, nil)
		q := domain.Query{ShopID: shopID.String(), Page: 1}

		if _, err := svc.FetchRegular(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.RenameCategory(context.Background(), shopID, "Drinks", "Beverages"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.FetchRegular(context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.standardCalls != 2 {
			t.Fatalf("rename must invalidate cached pages, got %d fetches", fetcher.standardCalls)
		}
	})
}

func TestTogglePromoted(t *testing.T) {
	repo := &fakeRepo{record: domain.Record{ID: "a", Name: strPtr("Tea"), Price: f64Ptr(3), Promoted: false}}
	svc := newService(&fakeFetcher{}, repo, nil)

	if _, err := svc.TogglePromoted(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(repo.updated))
	}
	if repo.updated[0].Promoted == nil || *repo.updated[0].Promoted != true {
		t.Fatalf("expected promoted flipped to true, got %+v", repo.updated[0].Promoted)
	}
}

func TestFetchUpToPage_ReusesCachedPrefix(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]domain.PagedResult{
		1: {Items: []domain.Item{item("a")}, HasMore: true, Page: 1},
		2: {Items: []domain.Item{item("b")}, HasMore: true, Page: 2},
		3: {Items: []domain.Item{item("c")}, HasMore: false, Page: 3},
	}}
	svc := newService(fetcher, &fakeRepo{}, nil)
	q := domain.Query{ShopID: "shop-1"}

	// Warm pages 1 and 2.
	for p := 1; p <= 2; p++ {
		pq := q
		pq.Page = p
		if _, err := svc.FetchRegular(context.Background(), pq); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	fetcher.standardCalls = 0

	res, err := svc.FetchUpToPage(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.standardCalls != 1 {
		t.Fatalf("expected only page 3 fetched, got %d fetches", fetcher.standardCalls)
	}
	if len(res.Items) != 3 {
		t.Fatalf("expected 3 stitched items, got %d", len(res.Items))
	}
	if res.HasMore {
		t.Fatal("HasMore must come from the final page")
	}
}

func TestFetchStorefront(t *testing.T) {
	fetcher := &fakeFetcher{
		featured: domain.FeaturedResult{Items: []domain.Item{item("f")}},
		pages:    map[int]domain.PagedResult{1: {Items: []domain.Item{item("a")}, HasMore: true, Page: 1}},
	}
	svc := newService(fetcher, &fakeRepo{}, nil)

	view, err := svc.FetchStorefront(context.Background(), domain.Query{ShopID: "shop-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Featured.Items) != 1 || view.Featured.Items[0].ID != "f" {
		t.Fatalf("unexpected featured payload: %+v", view.Featured)
	}
	if len(view.Catalog.Items) != 1 || !view.Catalog.HasMore {
		t.Fatalf("unexpected catalog payload: %+v", view.Catalog)
	}
}

func TestFetchStorefront_ErrorPropagates(t *testing.T) {
	fetcher := &fakeFetcher{err: apperr.Timeout("deadline")}
	svc := newService(fetcher, &fakeRepo{}, nil)

	_, err := svc.FetchStorefront(context.Background(), domain.Query{ShopID: "shop-1"})
	if apperr.GetKind(err) != apperr.KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}
