package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNetworkRepository implements NetworkRepository using GORM
type GormNetworkRepository struct {
	db *gorm.DB
}

// NewGormNetworkRepository creates a new GormNetworkRepository
func NewGormNetworkRepository(db *gorm.DB) *GormNetworkRepository {
	return &GormNetworkRepository{db: db}
}

// FindByID finds a network by ID
func (r *GormNetworkRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a network and locks its row until the
// surrounding transaction ends.
func (r *GormNetworkRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindByIDForShare finds a network and holds a shared lock on its row until
// the surrounding transaction ends.
func (r *GormNetworkRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*supplychain.Network, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), id)
}

func (r *GormNetworkRepository) first(query *gorm.DB, id uuid.UUID) (*supplychain.Network, error) {
	var model models.NetworkModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, supplychain.ErrNetworkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindChildrenForShare returns the networks whose provider is id and holds
// a shared lock on each of them until the surrounding transaction ends.
func (r *GormNetworkRepository) FindChildrenForShare(ctx context.Context, id uuid.UUID) ([]supplychain.Network, error) {
	var rows []models.NetworkModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("provider_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toNetworks(rows), nil
}

// FindByIDs finds networks by IDs. Unknown ids are skipped.
func (r *GormNetworkRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]supplychain.Network, error) {
	if len(ids) == 0 {
		return []supplychain.Network{}, nil
	}
	var rows []models.NetworkModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toNetworks(rows), nil
}

// FindAll returns one page of networks matching the filter and the total count
func (r *GormNetworkRepository) FindAll(ctx context.Context, filter supplychain.NetworkFilter) ([]supplychain.Network, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.NetworkModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.NetworkModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NetworkModel{}), filter)
	query = paginate(query, filter.Filter).Order(networkSort.order(filter.Filter))
	if err := query.Select("networks.*").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toNetworks(rows), total, nil
}

// applyFilter joins contacts only when a contact field is filtered on, so
// networks without a contact stay in unfiltered lists.
func (r *GormNetworkRepository) applyFilter(query *gorm.DB, filter supplychain.NetworkFilter) *gorm.DB {
	if filter.ContactCountry == "" && filter.ContactCity == "" {
		return query
	}
	query = query.Joins("JOIN contacts ON contacts.id = networks.contact_id")
	if filter.ContactCountry != "" {
		query = query.Where("contacts.country = ?", filter.ContactCountry)
	}
	if filter.ContactCity != "" {
		query = query.Where("contacts.city = ?", filter.ContactCity)
	}
	return query
}

// ExistsByID checks if a network exists
func (r *GormNetworkRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NetworkModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a network
func (r *GormNetworkRepository) Save(ctx context.Context, network *supplychain.Network) error {
	model := models.NetworkModelFromDomain(network)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

// Delete deletes a network
func (r *GormNetworkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.NetworkModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return supplychain.ErrNetworkNotFound
	}
	return nil
}

// ClearArrears sets arrears to zero on every listed network in a single
// UPDATE. Rows already at zero still count as matched.
func (r *GormNetworkRepository) ClearArrears(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.NetworkModel{}).
		Where("id IN ?", ids).
		Update("arrears", decimal.Zero)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DetachChildren clears the provider of every network supplied by id
func (r *GormNetworkRepository) DetachChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NetworkModel{}).
		Where("provider_id = ?", id).
		Update("provider_id", nil)
	return result.RowsAffected, result.Error
}

// DetachContact clears the contact of every network linked to contactID
func (r *GormNetworkRepository) DetachContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NetworkModel{}).
		Where("contact_id = ?", contactID).
		Update("contact_id", nil)
	return result.RowsAffected, result.Error
}

func toNetworks(rows []models.NetworkModel) []supplychain.Network {
	networks := make([]supplychain.Network, len(rows))
	for i := range rows {
		networks[i] = *rows[i].ToDomain()
	}
	return networks
}

// Ensure GormNetworkRepository implements NetworkRepository
var _ supplychain.NetworkRepository = (*GormNetworkRepository)(nil)
