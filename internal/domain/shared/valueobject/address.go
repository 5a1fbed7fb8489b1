package valueobject

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits for postal details.
const (
	MaxAddressFieldLength = 250
	MaxHouseNumberLength  = 25
)

// Address is a value object holding postal details of a contact.
// Every field is optional. It is immutable; the With* methods return copies.
type Address struct {
	country     string
	city        string
	street      string
	houseNumber string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithCountry sets the country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// WithCity sets the city
func WithCity(city string) AddressOption {
	return func(a *Address) {
		a.city = strings.TrimSpace(city)
	}
}

// WithStreet sets the street
func WithStreet(street string) AddressOption {
	return func(a *Address) {
		a.street = strings.TrimSpace(street)
	}
}

// WithHouseNumber sets the house number
func WithHouseNumber(houseNumber string) AddressOption {
	return func(a *Address) {
		a.houseNumber = strings.TrimSpace(houseNumber)
	}
}

// NewAddress builds an Address from options and checks field lengths.
func NewAddress(opts ...AddressOption) (Address, error) {
	var addr Address
	for _, opt := range opts {
		opt(&addr)
	}
	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

func (a Address) validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"country", a.country, MaxAddressFieldLength},
		{"city", a.city, MaxAddressFieldLength},
		{"street", a.street, MaxAddressFieldLength},
		{"house number", a.houseNumber, MaxHouseNumberLength},
	}
	for _, c := range checks {
		if utf8.RuneCountInString(c.value) > c.max {
			return fmt.Errorf("%s cannot exceed %d characters", c.field, c.max)
		}
	}
	return nil
}

// EmptyAddress returns an address with no fields set
func EmptyAddress() Address {
	return Address{}
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Street returns the street
func (a Address) Street() string {
	return a.street
}

// HouseNumber returns the house number
func (a Address) HouseNumber() string {
	return a.houseNumber
}

// IsEmpty returns true if every field is blank
func (a Address) IsEmpty() bool {
	return a.country == "" && a.city == "" && a.street == "" && a.houseNumber == ""
}

// String joins the non-empty fields, street line last.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	if a.country != "" {
		parts = append(parts, a.country)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	line := strings.TrimSpace(a.street + " " + a.houseNumber)
	if line != "" {
		parts = append(parts, line)
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// SameCountry compares countries exactly, the way the network list filter does.
func (a Address) SameCountry(other Address) bool {
	return a.country == other.country
}

// WithUpdatedCountry returns a copy with a new country
func (a Address) WithUpdatedCountry(country string) (Address, error) {
	return a.with(WithCountry(country))
}

// WithUpdatedCity returns a copy with a new city
func (a Address) WithUpdatedCity(city string) (Address, error) {
	return a.with(WithCity(city))
}

func (a Address) with(opt AddressOption) (Address, error) {
	return NewAddress(
		WithCountry(a.country),
		WithCity(a.city),
		WithStreet(a.street),
		WithHouseNumber(a.houseNumber),
		opt,
	)
}

// RestoreAddress rebuilds an Address from trusted storage without validation.
func RestoreAddress(country, city, street, houseNumber string) Address {
	return Address{country: country, city: city, street: street, houseNumber: houseNumber}
}
