// Package cache keeps recently fetched catalog payloads in memory so that
// storefront render bursts do not hammer the backing store. The promoted and
// standard result sets live in separate sub-caches because they expire and
// invalidate independently of each other's churn.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
	"shopfront_backend/platform/logger"
)

// Config carries the cache tuning knobs.
type Config interface {
	GetCatalogCacheTTL() time.Duration
	GetCatalogCacheCapacity() int
}

// Key identifies one cached result set. Keys are normalized so that
// cosmetically different queries ("Tea " vs "tea") share an entry.
type Key struct {
	ShopID   string
	Search   string
	Category string
	Page     int // 0 for the promoted sub-cache
}

// NormalizeKey canonicalizes the free-form query parts. Search terms are
// trimmed and lowercased; the "all items" category sentinel and a blank
// category collapse to the same key.
func NormalizeKey(shopID, search, category string, page int) Key {
	cat := strings.TrimSpace(category)
	if strings.EqualFold(cat, query.CategoryAll) {
		cat = ""
	}
	return Key{
		ShopID:   strings.TrimSpace(shopID),
		Search:   strings.ToLower(strings.TrimSpace(search)),
		Category: cat,
		Page:     page,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%d", k.ShopID, k.Search, k.Category, k.Page)
}

type entry struct {
	items    []domain.Item
	hasMore  bool
	storedAt time.Time
}

// shard is one bounded sub-cache. Expiry is lazy: entries past their TTL
// are discarded on the read that finds them.
type shard struct {
	mu       sync.Mutex
	entries  map[Key]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
	log      *logger.Logger
	name     string
}

func newShard(name string, cfg Config, now func() time.Time, log *logger.Logger) *shard {
	return &shard{
		entries:  make(map[Key]entry),
		ttl:      cfg.GetCatalogCacheTTL(),
		capacity: cfg.GetCatalogCacheCapacity(),
		now:      now,
		log:      log,
		name:     name,
	}
}

func (s *shard) get(key Key) (entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.log.CacheEvent(s.name+"_miss", key.String())
		return entry{}, false
	}
	// Fresh means strictly younger than the TTL; an entry aged exactly TTL
	// is already stale.
	if s.now().Sub(e.storedAt) >= s.ttl {
		delete(s.entries, key)
		s.log.CacheEvent(s.name+"_expired", key.String())
		return entry{}, false
	}
	s.log.CacheEvent(s.name+"_hit", key.String())
	return e, true
}

func (s *shard) set(key Key, e entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldest()
	}
	e.storedAt = s.now()
	s.entries[key] = e
}

// evictOldest removes the entry with the earliest storedAt. Caller holds the
// lock. A linear scan is fine at the capacities this cache runs with.
func (s *shard) evictOldest() {
	var oldest Key
	var oldestAt time.Time
	first := true
	for k, e := range s.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldest = k
			oldestAt = e.storedAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldest)
		s.log.CacheEvent(s.name+"_evict", oldest.String())
	}
}

func (s *shard) invalidateShop(shopID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if k.ShopID == shopID {
			delete(s.entries, k)
		}
	}
}

func (s *shard) invalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]entry)
}

func (s *shard) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ResultCache is the in-memory catalog result cache. All payloads are copied
// on the way in and out so callers can never mutate a cached slice.
type ResultCache struct {
	promoted *shard
	standard *shard
}

// New creates a result cache with the wall clock.
func New(cfg Config, log *logger.Logger) *ResultCache {
	return NewWithClock(cfg, log, time.Now)
}

// NewWithClock creates a result cache with an injected clock. Tests use this
// to exercise expiry without sleeping.
func NewWithClock(cfg Config, log *logger.Logger, now func() time.Time) *ResultCache {
	return &ResultCache{
		promoted: newShard("promoted", cfg, now, log),
		standard: newShard("standard", cfg, now, log),
	}
}

// GetPromoted returns the cached promoted result for the query, if fresh.
func (c *ResultCache) GetPromoted(q domain.Query) (domain.FeaturedResult, bool) {
	e, ok := c.promoted.get(NormalizeKey(q.ShopID, q.SearchTerm, q.Category, 0))
	if !ok {
		return domain.FeaturedResult{}, false
	}
	return domain.FeaturedResult{Items: domain.CopyItems(e.items)}, true
}

// SetPromoted stores a promoted result.
func (c *ResultCache) SetPromoted(q domain.Query, res domain.FeaturedResult) {
	key := NormalizeKey(q.ShopID, q.SearchTerm, q.Category, 0)
	c.promoted.set(key, entry{items: domain.CopyItems(res.Items)})
}

// GetStandardPage returns the cached standard page for the query, if fresh.
func (c *ResultCache) GetStandardPage(q domain.Query) (domain.PagedResult, bool) {
	e, ok := c.standard.get(NormalizeKey(q.ShopID, q.SearchTerm, q.Category, q.Page))
	if !ok {
		return domain.PagedResult{}, false
	}
	return domain.PagedResult{Items: domain.CopyItems(e.items), HasMore: e.hasMore, Page: q.Page}, true
}

// SetStandardPage stores one standard page.
func (c *ResultCache) SetStandardPage(q domain.Query, res domain.PagedResult) {
	key := NormalizeKey(q.ShopID, q.SearchTerm, q.Category, q.Page)
	c.standard.set(key, entry{items: domain.CopyItems(res.Items), hasMore: res.HasMore})
}

// AssembledResult is the contiguous run of cached pages starting at page 1.
// HasMore comes from the last cached page reached; LastCachedPage is its
// index, which may be short of what the caller asked for.
type AssembledResult struct {
	Items          []domain.Item
	HasMore        bool
	LastCachedPage int
}

// GetAssembledUpToPage walks pages 1..maxPage, stopping at the first miss,
// and stitches whatever contiguous prefix is cached. A missing page 1 is a
// plain miss. Infinite-scroll consumers use this to avoid re-fetching pages
// they have already seen.
func (c *ResultCache) GetAssembledUpToPage(q domain.Query, maxPage int) (AssembledResult, bool) {
	if maxPage < 1 {
		return AssembledResult{}, false
	}

	var out AssembledResult
	for p := 1; p <= maxPage; p++ {
		e, ok := c.standard.get(NormalizeKey(q.ShopID, q.SearchTerm, q.Category, p))
		if !ok {
			break
		}
		out.Items = append(out.Items, domain.CopyItems(e.items)...)
		out.HasMore = e.hasMore
		out.LastCachedPage = p
	}
	if out.LastCachedPage == 0 {
		return AssembledResult{}, false
	}
	return out, true
}

// Invalidate drops every cached result belonging to one shop.
func (c *ResultCache) Invalidate(shopID string) {
	id := strings.TrimSpace(shopID)
	c.promoted.invalidateShop(id)
	c.standard.invalidateShop(id)
}

// InvalidateAll drops the entire cache across all shops.
func (c *ResultCache) InvalidateAll() {
	c.promoted.invalidateAll()
	c.standard.invalidateAll()
}

// Len reports the live entry count across both sub-caches. Expired entries
// that have not been touched still count until a read sweeps them.
func (c *ResultCache) Len() int {
	return c.promoted.len() + c.standard.len()
}
