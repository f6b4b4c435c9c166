// Package catalog provides the catalog bounded context module.
package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront_backend/internal/adapters/storage"
	"shopfront_backend/internal/catalog/cache"
	"shopfront_backend/internal/catalog/fetch"
	"shopfront_backend/internal/catalog/handler"
	"shopfront_backend/internal/catalog/repository"
	"shopfront_backend/internal/catalog/service"
	"shopfront_backend/internal/events"
	apphttp "shopfront_backend/internal/http"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/logger"
	"shopfront_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	cache   *cache.ResultCache
	repo    repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the catalog module. storageSvc and
// cleanup may be nil when object storage or the task queue is not
// configured.
func NewModule(pool *pgxpool.Pool, storageSvc storage.StorageService, shops handler.ShopResolver, cleanup service.CleanupEnqueuer, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	fetcher := fetch.New(repo, cfg, log)
	resultCache := cache.New(cfg, log)
	svc := service.New(fetcher, resultCache, repo, cleanup, log)
	h := handler.New(svc, shops, storageSvc, cfg.GetMinioBucketItemImages(), val)

	return &Module{
		handler: h,
		service: svc,
		cache:   resultCache,
		repo:    repo,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Cache returns the result cache, exposed for process-wide invalidation
// hooks (e.g. an operational flush endpoint).
func (m *Module) Cache() *cache.ResultCache {
	return m.cache
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public storefront reads, keyed by shop slug
	shopGroup := ctx.V1.Group("/shops/:slug")
	shopGroup.GET("/catalog/featured", m.handler.GetFeatured)
	shopGroup.GET("/catalog", m.handler.GetCatalog)
	shopGroup.GET("/catalog/all", m.handler.GetCatalogAll)
	shopGroup.GET("/catalog/assembled", m.handler.GetAssembled)
	shopGroup.GET("/catalog/image", m.handler.GetImageDownloadURL)
	shopGroup.GET("/storefront", m.handler.GetStorefront)

	// Admin writes, shop scoped via the JWT claim
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/items", m.handler.CreateItem)
	adminGroup.GET("/items/:id", m.handler.GetItem)
	adminGroup.PUT("/items/:id", m.handler.UpdateItem)
	adminGroup.DELETE("/items/:id", m.handler.DeleteItem)
	adminGroup.POST("/items/:id/promote", m.handler.TogglePromoted)
	adminGroup.POST("/items/image/presign", m.handler.PresignItemImage)
	adminGroup.GET("/categories", m.handler.ListCategories)
	adminGroup.POST("/categories/rename", m.handler.RenameCategory)
}

// RegisterHandlers subscribes to cross-module domain events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ShopDeleted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ShopDeleted:
		return m.service.PurgeShop(ctx, e.ShopID)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
