package persistence

import (
	"context"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to fn shares the same *gorm.DB transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ContactRepo returns the contact repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ContactRepo() supplychain.ContactRepository {
	return NewGormContactRepository(r.tx)
}

// NetworkRepo returns the network repository scoped to the current transaction.
func (r *gormTransactionalRepositories) NetworkRepo() supplychain.NetworkRepository {
	return NewGormNetworkRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() supplychain.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appsc.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appsc.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
