package handler

import (
	"github.com/gin-gonic/gin"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/interfaces/http/dto"
)

// AdminHandler serves the management console: change lists and edit views
// for contacts, networks and products, and bulk actions on networks.
type AdminHandler struct {
	BaseHandler
	networks *appsc.NetworkService
	contacts *appsc.ContactService
	products *appsc.ProductService
	queries  *appsc.AdminQueryService
	actions  *appsc.ActionRegistry
}

// AdminServices groups the services the console is built on.
type AdminServices struct {
	Networks *appsc.NetworkService
	Contacts *appsc.ContactService
	Products *appsc.ProductService
	Queries  *appsc.AdminQueryService
	Actions  *appsc.ActionRegistry
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(svc AdminServices) *AdminHandler {
	return &AdminHandler{
		networks: svc.Networks,
		contacts: svc.Contacts,
		products: svc.Products,
		queries:  svc.Queries,
		actions:  svc.Actions,
	}
}

// -----------------------------------------------------------------------------
// Networks
// -----------------------------------------------------------------------------

// ListNetworks handles GET /admin/networks. It accepts the city filter in
// addition to the API's contact__country.
func (h *AdminHandler) ListNetworks(c *gin.Context) {
	var filter appsc.NetworkListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	rows, total, err := h.queries.ListNetworks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.Pagination{Page: filter.Page, PageSize: filter.PageSize}.Defaults()
	h.SuccessWithMeta(c, rows, total, page.Page, page.PageSize)
}

// GetNetwork handles GET /admin/networks/:id
func (h *AdminHandler) GetNetwork(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	detail, err := h.queries.GetNetwork(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// CreateNetwork handles POST /admin/networks. The console may set arrears.
func (h *AdminHandler) CreateNetwork(c *gin.Context) {
	var req appsc.AdminNetworkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	network, err := h.networks.CreateWithArrears(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, network)
}

// UpdateNetwork handles PUT /admin/networks/:id
func (h *AdminHandler) UpdateNetwork(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	var req appsc.AdminNetworkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	network, err := h.networks.UpdateWithArrears(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, network)
}

// DeleteNetwork handles DELETE /admin/networks/:id
func (h *AdminHandler) DeleteNetwork(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	if err := h.networks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// -----------------------------------------------------------------------------
// Bulk actions
// -----------------------------------------------------------------------------

// ListActions handles GET /admin/actions
func (h *AdminHandler) ListActions(c *gin.Context) {
	h.Success(c, h.actions.Describe())
}

// RunAction handles POST /admin/actions/:name. The selection is applied as
// a whole or not at all.
func (h *AdminHandler) RunAction(c *gin.Context) {
	var req appsc.BulkActionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.actions.Run(c.Request.Context(), c.Param("name"), req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// -----------------------------------------------------------------------------
// Contacts
// -----------------------------------------------------------------------------

// ListContacts handles GET /admin/contacts
func (h *AdminHandler) ListContacts(c *gin.Context) {
	var page dto.Pagination
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Defaults()
	contacts, total, err := h.contacts.List(c.Request.Context(), page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contacts, total, page.Page, page.PageSize)
}

// GetContact handles GET /admin/contacts/:id
func (h *AdminHandler) GetContact(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrContactNotFound)
	if !ok {
		return
	}
	contact, err := h.contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// CreateContact handles POST /admin/contacts
func (h *AdminHandler) CreateContact(c *gin.Context) {
	var req appsc.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// UpdateContact handles PUT /admin/contacts/:id
func (h *AdminHandler) UpdateContact(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrContactNotFound)
	if !ok {
		return
	}
	var req appsc.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// DeleteContact handles DELETE /admin/contacts/:id. Networks that used the
// contact keep existing without one.
func (h *AdminHandler) DeleteContact(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrContactNotFound)
	if !ok {
		return
	}
	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// -----------------------------------------------------------------------------
// Products
// -----------------------------------------------------------------------------

// ListProducts handles GET /admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	var filter appsc.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.Pagination{Page: filter.Page, PageSize: filter.PageSize}.Defaults()
	h.SuccessWithMeta(c, products, total, page.Page, page.PageSize)
}

// GetProduct handles GET /admin/products/:id
func (h *AdminHandler) GetProduct(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrProductNotFound)
	if !ok {
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req appsc.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrProductNotFound)
	if !ok {
		return
	}
	var req appsc.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrProductNotFound)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
