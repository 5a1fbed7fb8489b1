package supplychain

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
)

// NetworkFilter narrows network lists. Empty strings mean "no filter".
type NetworkFilter struct {
	shared.Filter
	// ContactCountry matches the linked contact's country exactly.
	ContactCountry string
	// ContactCity matches the linked contact's city exactly.
	ContactCity string
}

// ProductFilter narrows product lists.
type ProductFilter struct {
	shared.Filter
	NetworkID *uuid.UUID
}

// ContactRepository persists contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Contact, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NetworkRepository persists networks
type NetworkRepository interface {
	HierarchyReader

	FindByID(ctx context.Context, id uuid.UUID) (*Network, error)
	// FindByIDForUpdate locks the row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Network, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Network, error)
	FindAll(ctx context.Context, filter NetworkFilter) ([]Network, int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, network *Network) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearArrears sets arrears to zero on every id in one statement and
	// returns the number of rows matched.
	ClearArrears(ctx context.Context, ids []uuid.UUID) (int64, error)
	// DetachChildren clears provider_id on networks whose provider is id.
	DetachChildren(ctx context.Context, id uuid.UUID) (int64, error)
	// DetachContact clears contact_id on networks linked to contactID.
	DetachContact(ctx context.Context, contactID uuid.UUID) (int64, error)
}

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByNetwork removes every product owned by networkID.
	DeleteByNetwork(ctx context.Context, networkID uuid.UUID) (int64, error)
}

// IsNotFound reports whether err is any NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return shared.IsCode(err, shared.CodeNotFound)
}
