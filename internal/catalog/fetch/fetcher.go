// Package fetch executes catalog queries against the backing store under a
// deadline, retries transient failures with a bounded attempt count, and
// validates the returned records before they reach any consumer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
	"shopfront_backend/internal/catalog/repository"
	"shopfront_backend/platform/apperr"
	"shopfront_backend/platform/logger"
)

// Config carries the fetcher tuning knobs. Promoted scans get the shorter
// deadline: they are small, unpaginated sets. Standard queries may pay for
// pagination offset scans and get the longer one.
type Config interface {
	GetFeaturedFetchTimeout() time.Duration
	GetStandardFetchTimeout() time.Duration
	GetFetchAttempts() int
	GetCatalogPageSize() int
}

// Fetcher executes validated catalog queries against a Store.
type Fetcher struct {
	store repository.Store
	cfg   Config
	log   *logger.Logger
}

// New creates a catalog fetcher.
func New(store repository.Store, cfg Config, log *logger.Logger) *Fetcher {
	return &Fetcher{store: store, cfg: cfg, log: log}
}

// FetchPromoted returns the shop's promoted items matching the query.
func (f *Fetcher) FetchPromoted(ctx context.Context, q domain.Query) (domain.FeaturedResult, error) {
	if strings.TrimSpace(q.ShopID) == "" {
		return domain.FeaturedResult{}, apperr.Validation("shopId is required")
	}

	pred := query.Build(q.ShopID, q.SearchTerm, q.Category, true)

	records, err := f.queryWithRetry(ctx, "fetch promoted", pred, 0, 0, f.cfg.GetFeaturedFetchTimeout())
	if err != nil {
		return domain.FeaturedResult{}, fmt.Errorf("fetch promoted catalog (shop %s): %w", q.ShopID, err)
	}

	return domain.FeaturedResult{Items: f.repair(records)}, nil
}

// FetchStandard returns one page of the shop's non-promoted items. HasMore
// is set when a full page of valid items came back.
func (f *Fetcher) FetchStandard(ctx context.Context, q domain.Query) (domain.PagedResult, error) {
	if strings.TrimSpace(q.ShopID) == "" {
		return domain.PagedResult{}, apperr.Validation("shopId is required")
	}
	if q.Page < 1 {
		return domain.PagedResult{}, apperr.Validation("page must be at least 1")
	}

	pred := query.Build(q.ShopID, q.SearchTerm, q.Category, false)
	pageSize := f.cfg.GetCatalogPageSize()
	offset := (q.Page - 1) * pageSize

	records, err := f.queryWithRetry(ctx, "fetch standard", pred, pageSize, offset, f.cfg.GetStandardFetchTimeout())
	if err != nil {
		return domain.PagedResult{}, fmt.Errorf("fetch standard catalog (shop %s, page %d): %w", q.ShopID, q.Page, err)
	}

	items := f.repair(records)
	return domain.PagedResult{
		Items:   items,
		HasMore: len(items) == pageSize,
		Page:    q.Page,
	}, nil
}

// queryWithRetry runs one store query under its deadline, retrying up to
// the configured attempt bound. Non-retryable errors terminate immediately.
func (f *Fetcher) queryWithRetry(ctx context.Context, op string, pred query.Predicate, limit, offset int, timeout time.Duration) ([]domain.Record, error) {
	attempts := f.cfg.GetFetchAttempts()
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, classify(err)
		}

		records, err := f.queryOnce(ctx, pred, limit, offset, timeout)
		if err == nil {
			return records, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		f.log.Warn("catalog query failed", "operation", op, "attempt", attempt, "error", err)
	}

	return nil, lastErr
}

func (f *Fetcher) queryOnce(ctx context.Context, pred query.Predicate, limit, offset int, timeout time.Duration) ([]domain.Record, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := f.store.QueryItems(queryCtx, pred, limit, offset)
	if err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// classify maps raw store errors onto the fetcher's error taxonomy.
// Already-typed errors pass through untouched.
func classify(err error) error {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTimeout, "catalog query timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindTimeout, "catalog query canceled", err)
	}
	return apperr.Wrap(apperr.KindUnavailable, "catalog store unavailable", err)
}

// retryable gates the retry loop. Validation errors and anything signalling
// a missing required field are permanent; timeouts and transient store
// failures retry up to the attempt bound.
func retryable(err error) bool {
	if !apperr.Retryable(err) {
		return false
	}
	return !strings.Contains(strings.ToLower(err.Error()), "required")
}

// repair validates each record, dropping malformed ones. Dropping is
// per-record and silent apart from a debug log; it never fails the request.
func (f *Fetcher) repair(records []domain.Record) []domain.Item {
	items := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		item, err := domain.RepairItem(rec)
		if err != nil {
			f.log.Debug("dropping malformed catalog record", "id", rec.ID)
			continue
		}
		items = append(items, item)
	}
	return items
}
