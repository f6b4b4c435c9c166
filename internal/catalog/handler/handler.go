package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopfront_backend/internal/adapters/storage"
	"shopfront_backend/internal/catalog/domain"
	"shopfront_backend/internal/catalog/repository"
	"shopfront_backend/internal/catalog/service"
	"shopfront_backend/internal/catalog/transport"
	"shopfront_backend/platform/httpkit"
	"shopfront_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid item id"
	msgUnknownShop      = "unknown shop"
)

// ShopResolver maps a public storefront slug to the shop id. Implemented by
// the shops service.
type ShopResolver interface {
	ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc         *service.Service
	shops       ShopResolver
	storage     storage.StorageService
	imageBucket string
	val         *validator.Validator
}

// New creates a new catalog handler. storageSvc may be nil when object
// storage is not configured; the presign endpoints then return 503.
func New(svc *service.Service, shops ShopResolver, storageSvc storage.StorageService, imageBucket string, val *validator.Validator) *Handler {
	return &Handler{svc: svc, shops: shops, storage: storageSvc, imageBucket: imageBucket, val: val}
}

func (h *Handler) resolveSlug(c *gin.Context) (uuid.UUID, bool) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		httpkit.Error(c, http.StatusBadRequest, msgUnknownShop, nil)
		return uuid.Nil, false
	}
	shopID, err := h.shops.ResolveSlug(c.Request.Context(), slug)
	if err != nil {
		httpkit.HandleError(c, err)
		return uuid.Nil, false
	}
	return shopID, true
}

// mustGetShopID extracts the admin's shop claim.
func mustGetShopID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, false
	}
	shopID := identity.ShopID()
	if shopID == nil {
		httpkit.Error(c, http.StatusForbidden, "no shop assigned to this account", nil)
		return uuid.Nil, false
	}
	return *shopID, true
}

// GetFeatured returns the shop's promoted items.
// GET /api/v1/shops/:slug/catalog/featured
func (h *Handler) GetFeatured(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	var req transport.FeaturedQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.FetchFeatured(c.Request.Context(), domain.Query{
		ShopID: shopID.String(), SearchTerm: req.Search, Category: req.Category,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FeaturedResponse{Products: res.Items})
}

// GetCatalog returns one page of the shop's standard catalog.
// GET /api/v1/shops/:slug/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	var req transport.CatalogQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	res, err := h.svc.FetchRegular(c.Request.Context(), domain.Query{
		ShopID: shopID.String(), SearchTerm: req.Search, Category: req.Category, Page: req.Page,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PagedResponse{Products: res.Items, HasMore: res.HasMore, Page: res.Page})
}

// GetCatalogAll is the legacy combined read. It never reports an error to
// the client; failures degrade to an empty page.
// GET /api/v1/shops/:slug/catalog/all
func (h *Handler) GetCatalogAll(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	var req transport.CatalogQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	res := h.svc.FetchAll(c.Request.Context(), domain.Query{
		ShopID: shopID.String(), SearchTerm: req.Search, Category: req.Category, Page: req.Page,
	})
	httpkit.OK(c, transport.PagedResponse{Products: res.Items, HasMore: res.HasMore, Page: res.Page})
}

// GetAssembled returns the concatenation of pages 1..maxPage, reusing any
// cached prefix. Infinite-scroll clients call this after a reload.
// GET /api/v1/shops/:slug/catalog/assembled
func (h *Handler) GetAssembled(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	var req transport.AssembledQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.FetchUpToPage(c.Request.Context(), domain.Query{
		ShopID: shopID.String(), SearchTerm: req.Search, Category: req.Category,
	}, req.MaxPage)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PagedResponse{Products: res.Items, HasMore: res.HasMore, Page: res.Page})
}

// GetStorefront returns the initial render payload: featured plus page 1.
// GET /api/v1/shops/:slug/storefront
func (h *Handler) GetStorefront(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	var req transport.FeaturedQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	view, err := h.svc.FetchStorefront(c.Request.Context(), domain.Query{
		ShopID: shopID.String(), SearchTerm: req.Search, Category: req.Category,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.StorefrontResponse{
		Featured: view.Featured.Items,
		Products: view.Catalog.Items,
		HasMore:  view.Catalog.HasMore,
	})
}

// GetImageDownloadURL returns a presigned GET URL for one of the shop's
// item images. The key must live under the shop's own prefix.
// GET /api/v1/shops/:slug/catalog/image?key=...
func (h *Handler) GetImageDownloadURL(c *gin.Context) {
	shopID, ok := h.resolveSlug(c)
	if !ok {
		return
	}
	if h.storage == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "object storage not configured", nil)
		return
	}
	key := c.Query("key")
	if key == "" || !strings.HasPrefix(key, shopID.String()+"/") {
		httpkit.Error(c, http.StatusBadRequest, "invalid image key", nil)
		return
	}

	url, err := h.storage.GenerateDownloadURL(c.Request.Context(), h.imageBucket, key)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "failed to generate download url", nil)
		return
	}
	httpkit.OK(c, url)
}

// CreateItem creates a catalog item for the admin's shop.
// POST /api/v1/admin/catalog/items
func (h *Handler) CreateItem(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	var req transport.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item, err := h.svc.CreateItem(c.Request.Context(), repository.CreateItemParams{
		ShopID:     shopID,
		Name:       req.Name,
		Category:   req.Category,
		Price:      *req.Price,
		OfferPrice: req.OfferPrice,
		ImageRef:   req.ImageRef,
		Promoted:   req.Promoted,
		Available:  available,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, item)
}

// GetItem retrieves one of the admin's items.
// GET /api/v1/admin/catalog/items/:id
func (h *Handler) GetItem(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	item, err := h.svc.GetItem(c.Request.Context(), shopID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// UpdateItem applies a partial update to an item.
// PUT /api/v1/admin/catalog/items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), repository.UpdateItemParams{
		ID:         id,
		ShopID:     shopID,
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		OfferPrice: req.OfferPrice,
		ImageRef:   req.ImageRef,
		Promoted:   req.Promoted,
		Available:  req.Available,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// TogglePromoted flips an item between the promoted and standard sets.
// POST /api/v1/admin/catalog/items/:id/promote
func (h *Handler) TogglePromoted(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	item, err := h.svc.TogglePromoted(c.Request.Context(), shopID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, item)
}

// DeleteItem removes an item.
// DELETE /api/v1/admin/catalog/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteItem(c.Request.Context(), shopID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategories returns the shop's distinct category labels.
// GET /api/v1/admin/catalog/categories
func (h *Handler) ListCategories(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}

	categories, err := h.svc.ListCategories(c.Request.Context(), shopID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CategoriesResponse{Categories: categories})
}

// RenameCategory moves every item of the shop between category labels.
// POST /api/v1/admin/catalog/categories/rename
func (h *Handler) RenameCategory(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	var req transport.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.RenameCategory(c.Request.Context(), shopID, req.From, req.To)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// PresignItemImage generates a presigned PUT URL for an item image upload.
// The stored file key becomes the item's imageRef.
// POST /api/v1/admin/catalog/items/image/presign
func (h *Handler) PresignItemImage(c *gin.Context) {
	shopID, ok := mustGetShopID(c)
	if !ok {
		return
	}
	if h.storage == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "object storage not configured", nil)
		return
	}
	var req transport.PresignItemImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	folder := shopID.String() + "/items"
	url, err := h.storage.GenerateUploadURL(c.Request.Context(), h.imageBucket, folder, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	httpkit.OK(c, url)
}
