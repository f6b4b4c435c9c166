package transport

import "shopfront_backend/internal/catalog/domain"

// Public reads

type FeaturedQueryRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Category string `form:"category" validate:"max=100"`
}

type CatalogQueryRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Category string `form:"category" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
}

type AssembledQueryRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Category string `form:"category" validate:"max=100"`
	MaxPage  int    `form:"maxPage" validate:"required,min=1"`
}

type FeaturedResponse struct {
	Products []domain.Item `json:"products"`
}

type PagedResponse struct {
	Products []domain.Item `json:"products"`
	HasMore  bool          `json:"hasMore"`
	Page     int           `json:"page"`
}

type StorefrontResponse struct {
	Featured []domain.Item `json:"featured"`
	Products []domain.Item `json:"products"`
	HasMore  bool          `json:"hasMore"`
}

// Admin writes

type CreateItemRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=200"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price      *float64 `json:"price" validate:"required,min=0"`
	OfferPrice *float64 `json:"offerPrice,omitempty" validate:"omitempty,gt=0"`
	ImageRef   *string  `json:"imageRef,omitempty" validate:"omitempty,max=500"`
	Promoted   bool     `json:"promoted"`
	Available  *bool    `json:"available,omitempty"`
}

type UpdateItemRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	OfferPrice *float64 `json:"offerPrice,omitempty" validate:"omitempty,gt=0"`
	ImageRef   *string  `json:"imageRef,omitempty" validate:"omitempty,max=500"`
	Promoted   *bool    `json:"promoted,omitempty"`
	Available  *bool    `json:"available,omitempty"`
}

type RenameCategoryRequest struct {
	From string `json:"from" validate:"required,min=1,max=100"`
	To   string `json:"to" validate:"required,min=1,max=100"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type PresignItemImageRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}
