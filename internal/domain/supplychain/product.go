package supplychain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
)

// Product is an item distributed by exactly one Network. It is removed
// together with that Network.
type Product struct {
	shared.BaseEntity
	Name      string
	ModelName string
	NetworkID uuid.UUID
}

// NewProduct creates a product owned by networkID.
func NewProduct(networkID uuid.UUID, name, modelName string) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.apply(networkID, name, modelName); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields. The release date never changes.
func (p *Product) Update(networkID uuid.UUID, name, modelName string) error {
	if err := p.apply(networkID, name, modelName); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// ReleaseDate is the moment the product was registered.
func (p *Product) ReleaseDate() time.Time {
	return p.CreatedAt
}

// String returns the product name
func (p *Product) String() string {
	return p.Name
}

func (p *Product) apply(networkID uuid.UUID, name, modelName string) error {
	if networkID == uuid.Nil {
		return shared.NewValidationError("product must belong to a network")
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	modelName = strings.TrimSpace(modelName)
	if utf8.RuneCountInString(modelName) > MaxNameLength {
		return shared.NewValidationError(fmt.Sprintf("model name cannot exceed %d characters", MaxNameLength))
	}
	p.NetworkID = networkID
	p.Name = name
	p.ModelName = modelName
	return nil
}
