package supplychain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplynet/backend/internal/domain/shared"
)

// MaxNameLength bounds network and product names.
const MaxNameLength = 250

// Level is the descriptive position of a network in the distribution chain.
// The depth rule walks provider links and never looks at Level.
type Level int

// Levels stored in networks.level, labelled by Label.
const (
	LevelFactory                Level = 0
	LevelRetailNetwork          Level = 1
	LevelIndividualEntrepreneur Level = 2
)

// Label returns the human-readable level name
func (l Level) Label() string {
	switch l {
	case LevelFactory:
		return "Factory"
	case LevelRetailNetwork:
		return "Retail Network"
	case LevelIndividualEntrepreneur:
		return "Individual Entrepreneur"
	default:
		return "Unknown"
	}
}

// IsValid reports whether l is one of the defined levels
func (l Level) IsValid() bool {
	return l >= LevelFactory && l <= LevelIndividualEntrepreneur
}

// ParseLevel converts a raw integer into a Level.
func ParseLevel(v int) (Level, error) {
	l := Level(v)
	if !l.IsValid() {
		return 0, shared.NewValidationError(fmt.Sprintf("level must be one of 0, 1, 2; got %d", v))
	}
	return l, nil
}

// maxArrears is the exclusive upper bound of a numeric(10,2) column.
var maxArrears = decimal.New(1, 8)

// Network is one node of the distribution hierarchy.
type Network struct {
	shared.BaseEntity
	Name       string
	ContactID  *uuid.UUID
	ProviderID *uuid.UUID
	Level      Level
	// Arrears is nil when no debt has ever been recorded.
	Arrears *decimal.Decimal
}

// NewNetwork creates a network with no contact, no provider and no arrears.
func NewNetwork(name string, level Level) (*Network, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !level.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("level must be one of 0, 1, 2; got %d", level))
	}
	return &Network{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Level:      level,
	}, nil
}

// Rename changes the display name
func (n *Network) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	n.Name = name
	n.Touch()
	return nil
}

// SetLevel changes the descriptive level
func (n *Network) SetLevel(level Level) error {
	if !level.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("level must be one of 0, 1, 2; got %d", level))
	}
	n.Level = level
	n.Touch()
	return nil
}

// SetContact links or unlinks (nil) a contact.
func (n *Network) SetContact(contactID *uuid.UUID) {
	n.ContactID = cloneID(contactID)
	n.Touch()
}

// SetProvider links or unlinks (nil) the parent network. It reports whether
// the link changed, which tells callers the depth rule must run again.
func (n *Network) SetProvider(providerID *uuid.UUID) (bool, error) {
	if providerID != nil && *providerID == n.ID {
		return false, ErrSelfProvider
	}
	changed := !sameID(n.ProviderID, providerID)
	n.ProviderID = cloneID(providerID)
	n.Touch()
	return changed, nil
}

// SetArrears records debt owed to the provider. Only the admin console calls this.
func (n *Network) SetArrears(amount *decimal.Decimal) error {
	if amount == nil {
		n.Arrears = nil
		n.Touch()
		return nil
	}
	if err := ValidateArrears(*amount); err != nil {
		return err
	}
	v := *amount
	n.Arrears = &v
	n.Touch()
	return nil
}

// ClearArrears sets the debt to zero whatever it was before.
func (n *Network) ClearArrears() {
	zero := decimal.Zero
	n.Arrears = &zero
	n.Touch()
}

// HasProvider reports whether the network is linked to a parent
func (n *Network) HasProvider() bool {
	return n.ProviderID != nil
}

// String returns the network name
func (n *Network) String() string {
	return n.Name
}

// ValidateArrears checks amount fits numeric(10,2) and is not negative.
func ValidateArrears(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("arrears cannot be negative")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return shared.NewValidationError("arrears cannot have more than 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxArrears) {
		return shared.NewValidationError("arrears cannot have more than 10 digits")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return shared.NewValidationError(fmt.Sprintf("name cannot exceed %d characters", MaxNameLength))
	}
	return nil
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
