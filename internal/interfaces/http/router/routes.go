package router

import (
	"github.com/gin-gonic/gin"

	"github.com/supplynet/backend/internal/interfaces/http/handler"
	"github.com/supplynet/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers the application serves.
type Handlers struct {
	Networks *handler.NetworkHandler
	Admin    *handler.AdminHandler
	System   *handler.SystemHandler
}

// AccessConfig decides who reaches the gated surfaces.
type AccessConfig struct {
	// Authenticate resolves the caller; see middleware.Authenticate.
	Authenticate gin.HandlerFunc
	// StaffOnly additionally requires the staff flag on the console.
	StaffOnly bool
}

// NetworkRoutes is the public network API under /networks.
func NetworkRoutes(h *handler.NetworkHandler) *DomainGroup {
	g := NewDomainGroup("networks", "/networks")
	g.GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		PATCH("/:id", h.Patch).
		DELETE("/:id", h.Delete)
	return g
}

// AdminRoutes is the management console under /admin.
func AdminRoutes(h *handler.AdminHandler) *DomainGroup {
	g := NewDomainGroup("admin", "/admin")

	g.Group("networks", "/networks").
		GET("", h.ListNetworks).
		POST("", h.CreateNetwork).
		GET("/:id", h.GetNetwork).
		PUT("/:id", h.UpdateNetwork).
		DELETE("/:id", h.DeleteNetwork)

	g.Group("actions", "/actions").
		GET("", h.ListActions).
		POST("/:name", h.RunAction)

	g.Group("contacts", "/contacts").
		GET("", h.ListContacts).
		POST("", h.CreateContact).
		GET("/:id", h.GetContact).
		PUT("/:id", h.UpdateContact).
		DELETE("/:id", h.DeleteContact)

	g.Group("products", "/products").
		GET("", h.ListProducts).
		POST("", h.CreateProduct).
		GET("/:id", h.GetProduct).
		PUT("/:id", h.UpdateProduct).
		DELETE("/:id", h.DeleteProduct)

	return g
}

// SystemRoutes serves build information under /system.
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
	return g
}

// HealthRoutes serves the readiness probe at /health.
func HealthRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("health", "").GET("/health", h.Health)
}

// SetupRoutes mounts every surface on engine. The network API and the
// console run the access gate before any handler, so a denied request
// never reaches the data layer.
func SetupRoutes(engine *gin.Engine, h Handlers, access AccessConfig) *Router {
	networks := NetworkRoutes(h.Networks).
		Use(access.Authenticate, middleware.TraceCaller(), middleware.RequireAccess())
	admin := AdminRoutes(h.Admin).
		Use(access.Authenticate, middleware.TraceCaller(), middleware.RequireStaff(access.StaffOnly))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(networks).
		Register(SystemRoutes(h.System)).
		Mount(admin).
		Mount(HealthRoutes(h.System))
	r.Setup()
	return r
}
