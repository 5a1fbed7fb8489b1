package supplychain

import (
	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/shared/valueobject"
)

// Contact holds postal and e-mail details a Network may point at.
// Every field is optional.
type Contact struct {
	shared.BaseEntity
	Email   valueobject.Email
	Address valueobject.Address
}

// NewContact creates a contact. Field validation happens in the value objects.
func NewContact(email valueobject.Email, address valueobject.Address) *Contact {
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Address:    address,
	}
}

// Update replaces every field of the contact.
func (c *Contact) Update(email valueobject.Email, address valueobject.Address) {
	c.Email = email
	c.Address = address
	c.Touch()
}

// String renders "<country> - <email>", the label used in admin lists.
func (c *Contact) String() string {
	return c.Address.Country() + " - " + c.Email.String()
}

// ContactLabel returns the display label for id, or "" when the contact is
// unknown or the network has none.
func ContactLabel(contacts map[uuid.UUID]*Contact, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if c, ok := contacts[*id]; ok {
		return c.String()
	}
	return ""
}
