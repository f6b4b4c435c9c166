package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateShopRequest struct {
	Slug     string `json:"slug" validate:"required,slug,max=60"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
	ThemeKey string `json:"themeKey" validate:"omitempty,max=60"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

type UpdateShopRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	ThemeKey *string `json:"themeKey,omitempty" validate:"omitempty,min=1,max=60"`
	Currency *string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

type ShopResponse struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	ThemeKey  string    `json:"themeKey"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicShopResponse is the storefront-facing profile; it omits timestamps
// and internal identifiers the public UI has no use for.
type PublicShopResponse struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	ThemeKey string `json:"themeKey"`
	Currency string `json:"currency"`
}
