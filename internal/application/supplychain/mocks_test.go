package supplychain

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockNetworkRepository is a mock implementation of NetworkRepository
type MockNetworkRepository struct {
	mock.Mock
}

func (m *MockNetworkRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplychain.Network), args.Error(1)
}

func (m *MockNetworkRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplychain.Network), args.Error(1)
}

func (m *MockNetworkRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplychain.Network), args.Error(1)
}

func (m *MockNetworkRepository) FindChildrenForShare(ctx context.Context, id uuid.UUID) ([]supplychain.Network, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]supplychain.Network), args.Error(1)
}

func (m *MockNetworkRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]supplychain.Network, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]supplychain.Network), args.Error(1)
}

func (m *MockNetworkRepository) FindAll(ctx context.Context, filter supplychain.NetworkFilter) ([]supplychain.Network, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]supplychain.Network), args.Get(1).(int64), args.Error(2)
}

func (m *MockNetworkRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockNetworkRepository) Save(ctx context.Context, network *supplychain.Network) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

func (m *MockNetworkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNetworkRepository) ClearArrears(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNetworkRepository) DetachChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNetworkRepository) DetachContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(int64), args.Error(1)
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplychain.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]supplychain.Contact, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]supplychain.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supplychain.Contact, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]supplychain.Contact), args.Get(1).(int64), args.Error(2)
}

func (m *MockContactRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *supplychain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplychain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter supplychain.ProductFilter) ([]supplychain.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]supplychain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *supplychain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteByNetwork(ctx context.Context, networkID uuid.UUID) (int64, error) {
	args := m.Called(ctx, networkID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMetrics records business events
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordNetworkWrite(ctx context.Context, operation string) {
	m.Called(ctx, operation)
}

func (m *MockMetrics) RecordHierarchyRejected(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}

func (m *MockMetrics) RecordArrearsCleared(ctx context.Context, networks int64) {
	m.Called(ctx, networks)
}

// testRepos bundles the mocks behind a NoOpTransactionScope.
type testRepos struct {
	contacts *MockContactRepository
	networks *MockNetworkRepository
	products *MockProductRepository
	scope    *NoOpTransactionScope
}

func newTestRepos() *testRepos {
	r := &testRepos{
		contacts: new(MockContactRepository),
		networks: new(MockNetworkRepository),
		products: new(MockProductRepository),
	}
	r.scope = NewNoOpTransactionScope(r.contacts, r.networks, r.products)
	return r
}

func (r *testRepos) assertExpectations(t mock.TestingT) {
	r.contacts.AssertExpectations(t)
	r.networks.AssertExpectations(t)
	r.products.AssertExpectations(t)
}
