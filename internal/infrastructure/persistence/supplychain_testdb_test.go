package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/supplynet/backend/internal/domain/shared/valueobject"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/testutil"
	"gorm.io/gorm"
)

// setupSupplyChainTestDB creates an in-memory SQLite database with the
// supply chain tables and foreign keys enforced.
func setupSupplyChainTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSupplyChainDB(t)
}

// newMockGormDB opens GORM with the postgres dialector over sqlmock.
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

func seedContact(t *testing.T, db *gorm.DB, country, city, email string) *supplychain.Contact {
	t.Helper()
	addr, err := valueobject.NewAddress(valueobject.WithCountry(country), valueobject.WithCity(city))
	require.NoError(t, err)
	c := supplychain.NewContact(valueobject.MustNewEmail(email), addr)
	require.NoError(t, NewGormContactRepository(db).Save(context.Background(), c))
	return c
}

func seedNetwork(t *testing.T, db *gorm.DB, name string, provider *supplychain.Network, contact *supplychain.Contact) *supplychain.Network {
	t.Helper()
	n, err := supplychain.NewNetwork(name, supplychain.LevelFactory)
	require.NoError(t, err)
	if provider != nil {
		id := provider.ID
		n.ProviderID = &id
	}
	if contact != nil {
		id := contact.ID
		n.ContactID = &id
	}
	require.NoError(t, NewGormNetworkRepository(db).Save(context.Background(), n))
	return n
}

func seedProduct(t *testing.T, db *gorm.DB, network *supplychain.Network, name string) *supplychain.Product {
	t.Helper()
	p, err := supplychain.NewProduct(network.ID, name, name+"-m")
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func arrearsOf(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
