package repository

import (
	"context"

	"github.com/google/uuid"

	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/query"
)

// Store is the read contract the catalog fetcher requires from the backing
// store: a filterable, sortable, paginatable item collection keyed by shop.
// limit <= 0 means no pagination (used by the promoted scan).
type Store interface {
	QueryItems(ctx context.Context, pred query.Predicate, limit, offset int) ([]domain.Record, error)
}

// CreateItemParams contains data for creating a catalog item.
type CreateItemParams struct {
	ShopID     uuid.UUID
	Name       string
	Category   *string
	Price      float64
	OfferPrice *float64
	ImageRef   *string
	Promoted   bool
	Available  bool
}

// UpdateItemParams contains data for updating a catalog item.
// Nil fields are left unchanged.
type UpdateItemParams struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	Name       *string
	Category   *string
	Price      *float64
	OfferPrice *float64
	ImageRef   *string
	Promoted   *bool
	Available  *bool
}

// Repository defines catalog storage operations.
type Repository interface {
	Store

	CreateItem(ctx context.Context, params CreateItemParams) (domain.Record, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (domain.Record, error)
	// DeleteItem removes an item and returns its image reference, if any,
	// so the caller can schedule object cleanup.
	DeleteItem(ctx context.Context, shopID uuid.UUID, id uuid.UUID) (*string, error)
	// DeleteShopItems removes every item of a shop and returns their image
	// references for cleanup.
	DeleteShopItems(ctx context.Context, shopID uuid.UUID) ([]string, error)
	GetItemByID(ctx context.Context, shopID uuid.UUID, id uuid.UUID) (domain.Record, error)
	// RenameCategory moves every item of a shop from one category to
	// another and reports how many rows changed.
	RenameCategory(ctx context.Context, shopID uuid.UUID, from, to string) (int64, error)
	ListCategories(ctx context.Context, shopID uuid.UUID) ([]string, error)
}
