package supplychain

import (
	"context"

	"github.com/supplynet/backend/internal/domain/supplychain"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. Returning an error from fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories of the current
// transaction. The hierarchy check reads through NetworkRepo, so it sees the
// same snapshot the write commits against.
type TransactionalRepositories interface {
	ContactRepo() supplychain.ContactRepository
	NetworkRepo() supplychain.NetworkRepository
	ProductRepo() supplychain.ProductRepository
}

// NoOpTransactionScope calls fn directly with plain repositories.
// Used in unit tests where repositories are mocks.
type NoOpTransactionScope struct {
	contactRepo supplychain.ContactRepository
	networkRepo supplychain.NetworkRepository
	productRepo supplychain.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	contactRepo supplychain.ContactRepository,
	networkRepo supplychain.NetworkRepository,
	productRepo supplychain.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		contactRepo: contactRepo,
		networkRepo: networkRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ContactRepo returns the contact repository.
func (s *NoOpTransactionScope) ContactRepo() supplychain.ContactRepository {
	return s.contactRepo
}

// NetworkRepo returns the network repository.
func (s *NoOpTransactionScope) NetworkRepo() supplychain.NetworkRepository {
	return s.networkRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() supplychain.ProductRepository {
	return s.productRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
