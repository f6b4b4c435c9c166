// Package shops provides the shop registry bounded context module.
package shops

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront_backend/internal/events"
	apphttp "shopfront_backend/internal/http"
	"shopfront_backend/internal/shops/handler"
	"shopfront_backend/internal/shops/repository"
	"shopfront_backend/internal/shops/service"
	"shopfront_backend/platform/config"
	"shopfront_backend/platform/httpkit"
	"shopfront_backend/platform/logger"
	"shopfront_backend/platform/validator"
)

// Module is the shops bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the shops module.
func NewModule(pool *pgxpool.Pool, themes service.ThemeRegistry, bus events.Bus, cfg *config.Config, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, themes, bus, log)
	h := handler.New(svc, cfg, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "shops"
}

// Service returns the service layer for external use (slug resolution).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts shop routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	shopGroup := ctx.V1.Group("/shops/:slug")
	shopGroup.GET("", m.handler.GetPublicShop)
	shopGroup.GET("/poster.pdf", m.handler.GetPoster)

	// Shop management is platform-operator territory
	adminGroup := ctx.Admin.Group("/shops")
	adminGroup.Use(httpkit.RequireRole("platform_admin"))
	adminGroup.POST("", m.handler.CreateShop)
	adminGroup.GET("", m.handler.ListShops)
	adminGroup.GET("/:id", m.handler.GetShop)
	adminGroup.PUT("/:id", m.handler.UpdateShop)
	adminGroup.DELETE("/:id", m.handler.DeleteShop)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
