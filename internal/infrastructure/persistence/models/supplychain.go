package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplynet/backend/internal/domain/shared/valueobject"
	"github.com/supplynet/backend/internal/domain/supplychain"
)

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	BaseModel
	Email       string `gorm:"type:varchar(250);not null;default:''"`
	Country     string `gorm:"type:varchar(250);not null;default:'';index"`
	City        string `gorm:"type:varchar(250);not null;default:''"`
	Street      string `gorm:"type:varchar(250);not null;default:''"`
	HouseNumber string `gorm:"type:varchar(25);not null;default:''"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *supplychain.Contact {
	return &supplychain.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      valueobject.RestoreEmail(m.Email),
		Address:    valueobject.RestoreAddress(m.Country, m.City, m.Street, m.HouseNumber),
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *supplychain.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Email = c.Email.String()
	m.Country = c.Address.Country()
	m.City = c.Address.City()
	m.Street = c.Address.Street()
	m.HouseNumber = c.Address.HouseNumber()
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *supplychain.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// NetworkModel is the persistence model for the Network domain entity.
// Contact and Provider references are cleared, never cascaded, on delete.
type NetworkModel struct {
	BaseModel
	Name       string              `gorm:"type:varchar(250);not null"`
	ContactID  *uuid.UUID          `gorm:"type:uuid;index"`
	Contact    *ContactModel       `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL"`
	ProviderID *uuid.UUID          `gorm:"type:uuid;index"`
	Provider   *NetworkModel       `gorm:"foreignKey:ProviderID;constraint:OnDelete:SET NULL"`
	Level      int                 `gorm:"type:smallint;not null;default:0"`
	Arrears    decimal.NullDecimal `gorm:"type:decimal(10,2)"`
}

// TableName returns the table name for GORM
func (NetworkModel) TableName() string {
	return "networks"
}

// ToDomain converts the persistence model to a domain Network entity.
func (m *NetworkModel) ToDomain() *supplychain.Network {
	n := &supplychain.Network{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		ContactID:  m.ContactID,
		ProviderID: m.ProviderID,
		Level:      supplychain.Level(m.Level),
	}
	if m.Arrears.Valid {
		arrears := m.Arrears.Decimal
		n.Arrears = &arrears
	}
	return n
}

// FromDomain populates the persistence model from a domain Network entity.
func (m *NetworkModel) FromDomain(n *supplychain.Network) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.Name = n.Name
	m.ContactID = n.ContactID
	m.ProviderID = n.ProviderID
	m.Level = int(n.Level)
	m.Arrears = decimal.NullDecimal{}
	if n.Arrears != nil {
		m.Arrears = decimal.NewNullDecimal(*n.Arrears)
	}
}

// NetworkModelFromDomain creates a new persistence model from a domain Network entity.
func NetworkModelFromDomain(n *supplychain.Network) *NetworkModel {
	m := &NetworkModel{}
	m.FromDomain(n)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
// A product row goes away together with its network.
type ProductModel struct {
	BaseModel
	Name      string        `gorm:"type:varchar(250);not null"`
	ModelName string        `gorm:"type:varchar(250);not null;default:''"`
	NetworkID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Network   *NetworkModel `gorm:"foreignKey:NetworkID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *supplychain.Product {
	return &supplychain.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		ModelName:  m.ModelName,
		NetworkID:  m.NetworkID,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *supplychain.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.ModelName = p.ModelName
	m.NetworkID = p.NetworkID
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *supplychain.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// SupplyChainModels lists the models in dependency order for AutoMigrate.
func SupplyChainModels() []any {
	return []any{&ContactModel{}, &NetworkModel{}, &ProductModel{}}
}
