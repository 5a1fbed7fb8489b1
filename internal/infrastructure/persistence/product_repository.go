package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, supplychain.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of products and the total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter supplychain.ProductFilter) ([]supplychain.Product, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	query = paginate(query, filter.Filter).Order(productSort.order(filter.Filter))
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	products := make([]supplychain.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter supplychain.ProductFilter) *gorm.DB {
	if filter.NetworkID != nil {
		query = query.Where("network_id = ?", *filter.NetworkID)
	}
	return query
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *supplychain.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return supplychain.ErrProductNotFound
	}
	return nil
}

// DeleteByNetwork removes every product owned by networkID
func (r *GormProductRepository) DeleteByNetwork(ctx context.Context, networkID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "network_id = ?", networkID)
	return result.RowsAffected, result.Error
}

// Ensure GormProductRepository implements ProductRepository
var _ supplychain.ProductRepository = (*GormProductRepository)(nil)
