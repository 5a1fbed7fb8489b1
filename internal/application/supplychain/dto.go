package supplychain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplynet/backend/internal/domain/supplychain"
)

// =============================================================================
// Network DTOs (public API)
// =============================================================================

// NetworkRequest is the writable representation of a network. arrears and
// created_at are not part of it; unknown JSON keys are ignored on bind.
type NetworkRequest struct {
	Name       string     `json:"name" binding:"required,notblank,max=250"`
	ContactID  *uuid.UUID `json:"contact"`
	ProviderID *uuid.UUID `json:"provider"`
	Level      *int       `json:"level" binding:"required,min=0,max=2"`
}

// NullableID distinguishes an absent key from an explicit null in PATCH bodies.
type NullableID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON is only called for keys present in the body.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.ID = &id
	return nil
}

// NetworkPatchRequest updates only the fields present in the body.
type NetworkPatchRequest struct {
	Name       *string    `json:"name" binding:"omitempty,notblank,max=250"`
	ContactID  NullableID `json:"contact"`
	ProviderID NullableID `json:"provider"`
	Level      *int       `json:"level" binding:"omitempty,min=0,max=2"`
}

// NetworkListFilter holds the query parameters of the network list.
type NetworkListFilter struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ContactCountry string `form:"contact__country" binding:"omitempty,max=250"`
	ContactCity    string `form:"city" binding:"omitempty,max=250"`
	OrderBy        string `form:"order_by" binding:"omitempty,oneof=name level arrears created_at"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NetworkResponse is the public representation of a network.
type NetworkResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	ContactID  *uuid.UUID       `json:"contact"`
	ProviderID *uuid.UUID       `json:"provider"`
	Level      int              `json:"level"`
	Arrears    *decimal.Decimal `json:"arrears"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ToNetworkResponse converts a domain network
func ToNetworkResponse(n *supplychain.Network) NetworkResponse {
	return NetworkResponse{
		ID:         n.ID,
		Name:       n.Name,
		ContactID:  n.ContactID,
		ProviderID: n.ProviderID,
		Level:      int(n.Level),
		Arrears:    n.Arrears,
		CreatedAt:  n.CreatedAt,
	}
}

// ToNetworkResponses converts a slice of domain networks
func ToNetworkResponses(networks []supplychain.Network) []NetworkResponse {
	out := make([]NetworkResponse, len(networks))
	for i := range networks {
		out[i] = ToNetworkResponse(&networks[i])
	}
	return out
}

// =============================================================================
// Admin console DTOs
// =============================================================================

// AdminNetworkRequest is the console's edit form for a network. Unlike the
// public API it may set arrears.
type AdminNetworkRequest struct {
	NetworkRequest
	Arrears *decimal.Decimal `json:"arrears"`
}

// ProviderLink points at the provider's edit view.
type ProviderLink struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Href string    `json:"href"`
}

// AdminNetworkListItem is one row of the network change list.
type AdminNetworkListItem struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Contact      string           `json:"contact"`
	ProviderLink *ProviderLink    `json:"provider_link"`
	Level        int              `json:"level"`
	LevelLabel   string           `json:"level_label"`
	Arrears      *decimal.Decimal `json:"arrears"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ContactRequest is the console's edit form for a contact.
type ContactRequest struct {
	Email       string `json:"email" binding:"omitempty,email,max=250"`
	Country     string `json:"country" binding:"max=250"`
	City        string `json:"city" binding:"max=250"`
	Street      string `json:"street" binding:"max=250"`
	HouseNumber string `json:"house_number" binding:"max=25"`
}

// ContactResponse is one row of the contact change list.
type ContactResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
}

// ToContactResponse converts a domain contact
func ToContactResponse(c *supplychain.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Email:       c.Email.String(),
		Country:     c.Address.Country(),
		City:        c.Address.City(),
		Street:      c.Address.Street(),
		HouseNumber: c.Address.HouseNumber(),
	}
}

// ProductRequest is the console's edit form for a product.
type ProductRequest struct {
	Name      string    `json:"name" binding:"required,notblank,max=250"`
	ModelName string    `json:"model_name" binding:"max=250"`
	NetworkID uuid.UUID `json:"network" binding:"required"`
}

// ProductListFilter holds the query parameters of the product list.
type ProductListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	NetworkID string `form:"network" binding:"omitempty,uuid"`
}

// ProductResponse is one row of the product change list. Network is the
// owning network's display name.
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ModelName   string    `json:"model_name"`
	ReleaseDate time.Time `json:"release_date"`
	NetworkID   uuid.UUID `json:"network_id"`
	Network     string    `json:"network"`
}

// ToProductResponse converts a domain product; networkName may be empty.
func ToProductResponse(p *supplychain.Product, networkName string) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		ModelName:   p.ModelName,
		ReleaseDate: p.ReleaseDate(),
		NetworkID:   p.NetworkID,
		Network:     networkName,
	}
}

// BulkActionRequest selects the networks a bulk action applies to.
type BulkActionRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// BulkActionResult reports what a bulk action did.
type BulkActionResult struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Affected    int64  `json:"affected"`
}

// ActionDescriptor lists a registered bulk action.
type ActionDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AdminNetworkDetail is the console's edit view of one network.
type AdminNetworkDetail struct {
	NetworkResponse
	LevelLabel   string        `json:"level_label"`
	ProviderLink *ProviderLink `json:"provider_link"`
}
