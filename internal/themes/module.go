package themes

import (
	"github.com/gin-gonic/gin"

	apphttp "shopfront_backend/internal/http"
	"shopfront_backend/platform/httpkit"
)

// Module exposes the theme registry over HTTP.
type Module struct {
	registry *Registry
}

// NewModule wraps a loaded registry as an HTTP module.
func NewModule(registry *Registry) *Module {
	return &Module{registry: registry}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "themes"
}

// Registry returns the underlying registry for other modules.
func (m *Module) Registry() *Registry {
	return m.registry
}

// RegisterRoutes mounts theme routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/themes", m.listThemes)
}

// listThemes returns the available storefront themes.
// GET /api/v1/themes
func (m *Module) listThemes(c *gin.Context) {
	httpkit.OK(c, gin.H{"themes": m.registry.List()})
}

var _ apphttp.Module = (*Module)(nil)
