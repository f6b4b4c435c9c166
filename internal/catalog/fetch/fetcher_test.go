package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
	"shopfront_backend/platform/apperr"
	"shopfront_backend/platform/logger"
)

type fakeStore struct {
	calls      int
	records    []domain.Record
	errs       []error // consumed per call; nil entry means success
	lastPred   query.Predicate
	lastLimit  int
	lastOffset int
}

func (s *fakeStore) QueryItems(ctx context.Context, pred query.Predicate, limit, offset int) ([]domain.Record, error) {
	s.calls++
	s.lastPred = pred
	s.lastLimit = limit
	s.lastOffset = offset
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.records, nil
}

// slicingStore serves windows of a fixed ordered dataset the way an
// offset-paginated store does.
type slicingStore struct {
	records []domain.Record
}

func (s *slicingStore) QueryItems(ctx context.Context, pred query.Predicate, limit, offset int) ([]domain.Record, error) {
	if offset >= len(s.records) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(s.records) {
		end = len(s.records)
	}
	return s.records[offset:end], nil
}

type fetchConfig struct {
	attempts int
	pageSize int
}

func (c fetchConfig) GetFeaturedFetchTimeout() time.Duration { return 2 * time.Second }
func (c fetchConfig) GetStandardFetchTimeout() time.Duration { return 5 * time.Second }
func (c fetchConfig) GetFetchAttempts() int                  { return c.attempts }
func (c fetchConfig) GetCatalogPageSize() int                { return c.pageSize }

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func validRecord(id, name string, price float64) domain.Record {
	return domain.Record{ID: id, Name: strPtr(name), Price: f64Ptr(price)}
}

func newFetcher(store *fakeStore, cfg fetchConfig) *Fetcher {
	return New(store, cfg, logger.New("development"))
}

func TestFetchPromoted_RequiresShopID(t *testing.T) {
	store := &fakeStore{}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "  "})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("validation failure must not reach the store, got %d calls", store.calls)
	}
}

func TestFetchStandard_RequiresPositivePage(t *testing.T) {
	store := &fakeStore{}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 0})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFetchStandard_PaginationWindow(t *testing.T) {
	store := &fakeStore{records: []domain.Record{validRecord("a", "Oolong", 4.5)}}
	f := newFetcher(store, fetchConfig{attempts: 1, pageSize: 12})

	res, err := f.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastLimit != 12 || store.lastOffset != 24 {
		t.Fatalf("expected limit 12 offset 24, got %d/%d", store.lastLimit, store.lastOffset)
	}
	if res.Page != 3 {
		t.Fatalf("expected page 3 echoed back, got %d", res.Page)
	}
}

func TestFetchStandard_PagesConcatenateLikeOneLargerFetch(t *testing.T) {
	dataset := make([]domain.Record, 10)
	for i := range dataset {
		id := fmt.Sprintf("item-%02d", i)
		dataset[i] = validRecord(id, "Item "+id, float64(i+1))
	}
	store := &slicingStore{records: dataset}

	const pageSize = 4
	paged := New(store, fetchConfig{attempts: 1, pageSize: pageSize}, logger.New("development"))
	doubled := New(store, fetchConfig{attempts: 1, pageSize: 2 * pageSize}, logger.New("development"))

	page1, err := paged.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page2, err := paged.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	whole, err := doubled.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stitched := append(append([]domain.Item{}, page1.Items...), page2.Items...)
	if len(stitched) != len(whole.Items) {
		t.Fatalf("expected %d items from pages 1+2, got %d", len(whole.Items), len(stitched))
	}
	for i := range stitched {
		if stitched[i].ID != whole.Items[i].ID {
			t.Fatalf("item %d diverges: pages gave %q, single fetch gave %q",
				i, stitched[i].ID, whole.Items[i].ID)
		}
	}
}

func TestFetchStandard_HasMoreOnFullPage(t *testing.T) {
	full := make([]domain.Record, 3)
	for i, id := range []string{"a", "b", "c"} {
		full[i] = validRecord(id, "Item "+id, 1)
	}
	store := &fakeStore{records: full}
	f := newFetcher(store, fetchConfig{attempts: 1, pageSize: 3})

	res, err := f.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasMore {
		t.Fatal("full page should report HasMore")
	}

	store.records = full[:2]
	res, err = f.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasMore {
		t.Fatal("short page should not report HasMore")
	}
}

func TestFetchStandard_HasMoreCountsOnlyValidItems(t *testing.T) {
	// Page size 2: two records come back but one is malformed, so the
	// surviving single item must not signal another page.
	store := &fakeStore{records: []domain.Record{
		validRecord("a", "Sencha", 3),
		{ID: "b"}, // missing name and price, dropped
	}}
	f := newFetcher(store, fetchConfig{attempts: 1, pageSize: 2})

	res, err := f.FetchStandard(context.Background(), domain.Query{ShopID: "shop-1", Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected malformed record dropped, got %d items", len(res.Items))
	}
	if res.HasMore {
		t.Fatal("HasMore must be computed from valid items only")
	}
}

func TestFetchPromoted_RetriesTransientFailures(t *testing.T) {
	store := &fakeStore{
		records: []domain.Record{validRecord("a", "Matcha", 9)},
		errs:    []error{errors.New("connection reset"), errors.New("connection reset"), nil},
	}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	res, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "shop-1"})
	if err != nil {
		t.Fatalf("expected third attempt to succeed, got %v", err)
	}
	if store.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.calls)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
}

func TestFetchPromoted_AttemptsAreBounded(t *testing.T) {
	store := &fakeStore{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "shop-1"})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if store.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", store.calls)
	}
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable kind, got %v", err)
	}
}

func TestFetchPromoted_MissingFieldErrorIsNotRetried(t *testing.T) {
	store := &fakeStore{errs: []error{apperr.BadRequest("field shopId is required")}}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "shop-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.calls != 1 {
		t.Fatalf("permanent error must not be retried, got %d calls", store.calls)
	}
}

func TestFetchPromoted_DeadlineMapsToTimeout(t *testing.T) {
	store := &fakeStore{errs: []error{
		context.DeadlineExceeded, context.DeadlineExceeded, context.DeadlineExceeded,
	}}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "shop-1"})
	if apperr.GetKind(err) != apperr.KindTimeout {
		t.Fatalf("expected timeout kind, got %v", err)
	}
	if store.calls != 3 {
		t.Fatalf("timeouts are retryable, expected 3 attempts, got %d", store.calls)
	}
}

func TestFetchPromoted_CanceledParentStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := &fakeStore{errs: []error{errors.New("down")}}
	f := newFetcher(store, fetchConfig{attempts: 3, pageSize: 12})

	_, err := f.FetchPromoted(ctx, domain.Query{ShopID: "shop-1"})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if store.calls != 0 {
		t.Fatalf("canceled context must short-circuit, got %d calls", store.calls)
	}
}

func TestFetchPromoted_RepairsDefaults(t *testing.T) {
	store := &fakeStore{records: []domain.Record{
		{ID: "a", Name: strPtr("Gyokuro"), Price: f64Ptr(12)},
	}}
	f := newFetcher(store, fetchConfig{attempts: 1, pageSize: 12})

	res, err := f.FetchPromoted(context.Background(), domain.Query{ShopID: "shop-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := res.Items[0]
	if item.Category != domain.DefaultCategory {
		t.Fatalf("expected default category, got %q", item.Category)
	}
	if item.ImageRef != domain.PlaceholderImageRef {
		t.Fatalf("expected placeholder image, got %q", item.ImageRef)
	}
}
