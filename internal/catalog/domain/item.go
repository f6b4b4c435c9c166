// Package domain holds the catalog value types shared by the fetcher,
// cache, and service layers.
package domain

import (
	"errors"
	"strings"
)

const (
	// DefaultCategory is substituted when a record carries no category.
	DefaultCategory = "General"
	// PlaceholderImageRef is substituted when a record carries no image.
	PlaceholderImageRef = "static/item-placeholder.png"
)

// ErrMalformedRecord marks a per-record validation failure. Malformed
// records are dropped from result sets, never escalated to a request-level
// error.
var ErrMalformedRecord = errors.New("malformed catalog record")

// Item is one validated, sellable catalog entry. Items are immutable once
// repaired; cached payloads hand out copies.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Price      float64  `json:"price"`
	OfferPrice *float64 `json:"offerPrice,omitempty"`
	ImageRef   string   `json:"imageRef"`
	Promoted   bool     `json:"promoted"`
}

// Record is the loosely-shaped row returned by the backing store before
// validation. Optional columns surface as nil.
type Record struct {
	ID         string
	Name       *string
	Category   *string
	Price      *float64
	OfferPrice *float64
	ImageRef   *string
	Promoted   bool
}

// RepairItem validates a raw record and substitutes defaults for optional
// fields. A record missing its id or name, or without a numeric price, is
// rejected with ErrMalformedRecord. The offer price is kept only when it is
// a positive number strictly below the regular price.
func RepairItem(rec Record) (Item, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Item{}, ErrMalformedRecord
	}
	if rec.Name == nil || strings.TrimSpace(*rec.Name) == "" {
		return Item{}, ErrMalformedRecord
	}
	if rec.Price == nil {
		return Item{}, ErrMalformedRecord
	}

	item := Item{
		ID:       rec.ID,
		Name:     *rec.Name,
		Category: DefaultCategory,
		Price:    *rec.Price,
		ImageRef: PlaceholderImageRef,
		Promoted: rec.Promoted,
	}

	if rec.Category != nil && strings.TrimSpace(*rec.Category) != "" {
		item.Category = *rec.Category
	}
	if rec.ImageRef != nil && strings.TrimSpace(*rec.ImageRef) != "" {
		item.ImageRef = *rec.ImageRef
	}
	if rec.OfferPrice != nil && *rec.OfferPrice > 0 && *rec.OfferPrice < item.Price {
		offer := *rec.OfferPrice
		item.OfferPrice = &offer
	}

	return item, nil
}

// CopyItems returns an independent copy of a validated item slice so cached
// payloads are never aliased by consumers.
func CopyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].OfferPrice != nil {
			offer := *out[i].OfferPrice
			out[i].OfferPrice = &offer
		}
	}
	return out
}

// Query is the logical catalog query. Page is only meaningful for the
// standard, paginated variant.
type Query struct {
	ShopID     string
	SearchTerm string
	Category   string
	Page       int
}

// FeaturedResult is the unpaginated promoted-items payload.
type FeaturedResult struct {
	Items []Item
}

// PagedResult is one page of the standard catalog. HasMore signals that a
// full page of valid items came back; it may under-report when dropped
// records straddle the page boundary.
type PagedResult struct {
	Items   []Item
	HasMore bool
	Page    int
}
