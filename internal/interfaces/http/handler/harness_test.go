package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/persistence"
	"github.com/supplynet/backend/internal/interfaces/http/middleware"
	"github.com/supplynet/backend/internal/testutil"
)

// supplyChainHarness serves the network API and the console over an
// in-memory database with real services and repositories.
type supplyChainHarness struct {
	db     *gorm.DB
	router *gin.Engine
}

func newSupplyChainHarness(t *testing.T) *supplyChainHarness {
	t.Helper()

	db := testutil.NewSupplyChainDB(t)
	log := zap.NewNop()

	contactRepo := persistence.NewGormContactRepository(db)
	networkRepo := persistence.NewGormNetworkRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	networks := appsc.NewNetworkService(txScope, networkRepo, nil, log)
	api := NewNetworkHandler(networks)
	admin := NewAdminHandler(AdminServices{
		Networks: networks,
		Contacts: appsc.NewContactService(txScope, contactRepo, log),
		Products: appsc.NewProductService(txScope, productRepo, networkRepo, log),
		Queries:  appsc.NewAdminQueryService(networkRepo, contactRepo),
		Actions:  appsc.NewActionRegistry(networks),
	})

	router := gin.New()
	router.Use(middleware.RequestID())

	n := router.Group("/api/v1/networks")
	n.GET("", api.List)
	n.POST("", api.Create)
	n.GET("/:id", api.GetByID)
	n.PUT("/:id", api.Update)
	n.PATCH("/:id", api.Patch)
	n.DELETE("/:id", api.Delete)

	a := router.Group("/admin")
	a.GET("/networks", admin.ListNetworks)
	a.POST("/networks", admin.CreateNetwork)
	a.GET("/networks/:id", admin.GetNetwork)
	a.PUT("/networks/:id", admin.UpdateNetwork)
	a.DELETE("/networks/:id", admin.DeleteNetwork)
	a.GET("/actions", admin.ListActions)
	a.POST("/actions/:name", admin.RunAction)
	a.GET("/contacts", admin.ListContacts)
	a.POST("/contacts", admin.CreateContact)
	a.GET("/contacts/:id", admin.GetContact)
	a.PUT("/contacts/:id", admin.UpdateContact)
	a.DELETE("/contacts/:id", admin.DeleteContact)
	a.GET("/products", admin.ListProducts)
	a.POST("/products", admin.CreateProduct)
	a.GET("/products/:id", admin.GetProduct)
	a.PUT("/products/:id", admin.UpdateProduct)
	a.DELETE("/products/:id", admin.DeleteProduct)

	return &supplyChainHarness{db: db, router: router}
}

func (h *supplyChainHarness) do(t *testing.T, method, path string, body any) map[string]any {
	t.Helper()
	w := testutil.PerformRequest(t, h.router, testutil.Request{Method: method, Path: path, Body: body})
	if w.Code == http.StatusNoContent {
		return nil
	}
	return testutil.JSONResponse(t, w)
}

// create posts body and returns the new record's data object.
func (h *supplyChainHarness) create(t *testing.T, path string, body any) map[string]any {
	t.Helper()
	w := testutil.PerformRequest(t, h.router, testutil.Request{Method: http.MethodPost, Path: path, Body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.JSONResponse(t, w)["data"].(map[string]any)
}

func (h *supplyChainHarness) createContact(t *testing.T, country, city string) string {
	t.Helper()
	data := h.create(t, "/admin/contacts", map[string]any{
		"email":   "office@example.com",
		"country": country,
		"city":    city,
	})
	return data["id"].(string)
}

func (h *supplyChainHarness) createNetwork(t *testing.T, name string, level int, contact, provider any) string {
	t.Helper()
	data := h.create(t, "/api/v1/networks", map[string]any{
		"name":     name,
		"level":    level,
		"contact":  contact,
		"provider": provider,
	})
	return data["id"].(string)
}

func dataOf(resp map[string]any) map[string]any {
	d, _ := resp["data"].(map[string]any)
	return d
}

func listOf(resp map[string]any) []any {
	d, _ := resp["data"].([]any)
	return d
}
