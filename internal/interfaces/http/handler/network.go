package handler

import (
	"github.com/gin-gonic/gin"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/interfaces/http/dto"
)

// NetworkHandler serves the public network API. Every route sits behind
// the access gate, so handlers assume an authorized caller.
type NetworkHandler struct {
	BaseHandler
	networkService *appsc.NetworkService
}

// NewNetworkHandler creates a new NetworkHandler
func NewNetworkHandler(networkService *appsc.NetworkService) *NetworkHandler {
	return &NetworkHandler{networkService: networkService}
}

// List handles GET /networks. contact__country filters by exact match on
// the linked contact's country.
func (h *NetworkHandler) List(c *gin.Context) {
	var filter appsc.NetworkListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	// The public API filters by country only.
	filter.ContactCity = ""

	networks, total, err := h.networkService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page := dto.Pagination{Page: filter.Page, PageSize: filter.PageSize}.Defaults()
	h.SuccessWithMeta(c, networks, total, page.Page, page.PageSize)
}

// GetByID handles GET /networks/:id
func (h *NetworkHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	network, err := h.networkService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, network)
}

// Create handles POST /networks. An arrears key in the body is ignored.
func (h *NetworkHandler) Create(c *gin.Context) {
	var req appsc.NetworkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	network, err := h.networkService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, network)
}

// Update handles PUT /networks/:id
func (h *NetworkHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	var req appsc.NetworkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	network, err := h.networkService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, network)
}

// Patch handles PATCH /networks/:id
func (h *NetworkHandler) Patch(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	var req appsc.NetworkPatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	network, err := h.networkService.Patch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, network)
}

// Delete handles DELETE /networks/:id. Products of the network go with it;
// networks it supplied and its contact link are detached.
func (h *NetworkHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, supplychain.ErrNetworkNotFound)
	if !ok {
		return
	}
	if err := h.networkService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
