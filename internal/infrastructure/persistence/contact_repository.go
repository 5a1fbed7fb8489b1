package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, supplychain.ErrContactNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds contacts by IDs. Unknown ids are skipped.
func (r *GormContactRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]supplychain.Contact, error) {
	if len(ids) == 0 {
		return []supplychain.Contact{}, nil
	}
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]supplychain.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, nil
}

// FindAll returns one page of contacts and the total count
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supplychain.Contact, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ContactModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ContactModel
	query := paginate(r.db.WithContext(ctx), filter).Order(contactSort.order(filter))
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	contacts := make([]supplychain.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, total, nil
}

// ExistsByID checks if a contact exists
func (r *GormContactRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *supplychain.Contact) error {
	model := models.ContactModelFromDomain(contact)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return supplychain.ErrContactNotFound
	}
	return nil
}

// paginate applies page and page size when both are set
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormContactRepository implements ContactRepository
var _ supplychain.ContactRepository = (*GormContactRepository)(nil)
