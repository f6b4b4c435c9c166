package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopfront_backend/internal/poster"
	"shopfront_backend/internal/shops/repository"
	"shopfront_backend/internal/shops/service"
	"shopfront_backend/internal/shops/transport"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/httpkit"
	"shopfront_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid shop id"
)

// Handler handles HTTP requests for the shop registry.
type Handler struct {
	svc *service.Service
	cfg config.AppConfig
	val *validator.Validator
}

// New creates a new shops handler.
func New(svc *service.Service, cfg config.AppConfig, val *validator.Validator) *Handler {
	return &Handler{svc: svc, cfg: cfg, val: val}
}

func toResponse(s repository.Shop) transport.ShopResponse {
	return transport.ShopResponse{
		ID:        s.ID,
		Slug:      s.Slug,
		Name:      s.Name,
		ThemeKey:  s.ThemeKey,
		Currency:  s.Currency,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// GetPublicShop returns the storefront profile for a slug.
// GET /api/v1/shops/:slug
func (h *Handler) GetPublicShop(c *gin.Context) {
	shop, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PublicShopResponse{
		Slug:     shop.Slug,
		Name:     shop.Name,
		ThemeKey: shop.ThemeKey,
		Currency: shop.Currency,
	})
}

// GetPoster renders the shop's printable QR poster.
// GET /api/v1/shops/:slug/poster.pdf
func (h *Handler) GetPoster(c *gin.Context) {
	shop, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}

	base := strings.TrimRight(h.cfg.GetStorefrontBaseURL(), "/")
	pdf, err := poster.Generate(poster.Data{
		ShopName:      shop.Name,
		StorefrontURL: base + "/" + shop.Slug,
	})
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate poster", nil)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+shop.Slug+`-poster.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CreateShop registers a new shop.
// POST /api/v1/admin/shops
func (h *Handler) CreateShop(c *gin.Context) {
	var req transport.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	shop, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Slug:     req.Slug,
		Name:     req.Name,
		ThemeKey: req.ThemeKey,
		Currency: req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toResponse(shop))
}

// ListShops returns all registered shops.
// GET /api/v1/admin/shops
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, toResponse(s))
	}
	httpkit.OK(c, gin.H{"shops": out})
}

// GetShop returns one shop by id.
// GET /api/v1/admin/shops/:id
func (h *Handler) GetShop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	shop, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(shop))
}

// UpdateShop applies a partial update to a shop.
// PUT /api/v1/admin/shops/:id
func (h *Handler) UpdateShop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	shop, err := h.svc.Update(c.Request.Context(), service.UpdateParams{
		ID:       id,
		Name:     req.Name,
		ThemeKey: req.ThemeKey,
		Currency: req.Currency,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(shop))
}

// DeleteShop removes a shop. The catalog purge runs before this returns.
// DELETE /api/v1/admin/shops/:id
func (h *Handler) DeleteShop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
