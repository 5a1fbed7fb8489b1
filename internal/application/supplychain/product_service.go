package supplychain

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
	"go.uber.org/zap"
)

// ProductService handles product records for the admin console.
type ProductService struct {
	txScope     TransactionScope
	productRepo supplychain.ProductRepository
	networkRepo supplychain.NetworkRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	txScope TransactionScope,
	productRepo supplychain.ProductRepository,
	networkRepo supplychain.NetworkRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		txScope:     txScope,
		productRepo: productRepo,
		networkRepo: networkRepo,
		logger:      logger,
	}
}

// Create stores a product under an existing network.
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := supplychain.NewProduct(req.NetworkID, req.Name, req.ModelName)
	if err != nil {
		return nil, err
	}

	var owner *supplychain.Network
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		owner, err = repos.NetworkRepo().FindByID(ctx, req.NetworkID)
		if err != nil {
			return err
		}
		return repos.ProductRepo().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("network_id", product.NetworkID.String()),
	)
	resp := ToProductResponse(product, owner.Name)
	return &resp, nil
}

// GetByID returns one product with its network's name.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := ""
	if owner, err := s.networkRepo.FindByID(ctx, product.NetworkID); err == nil {
		name = owner.Name
	}
	resp := ToProductResponse(product, name)
	return &resp, nil
}

// List returns a page of products with their network names.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := supplychain.ProductFilter{Filter: shared.DefaultFilter()}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.NetworkID != "" {
		id, err := uuid.Parse(filter.NetworkID)
		if err != nil {
			return nil, 0, shared.NewDomainError(shared.CodeInvalidInput, "network must be a valid id")
		}
		domainFilter.NetworkID = &id
	}

	products, total, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	names, err := s.networkNames(ctx, products)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i], names[products[i].NetworkID])
	}
	return out, total, nil
}

// Update replaces the editable fields of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	var (
		product *supplychain.Product
		owner   *supplychain.Network
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		owner, err = repos.NetworkRepo().FindByID(ctx, req.NetworkID)
		if err != nil {
			return err
		}
		if err := product.Update(req.NetworkID, req.Name, req.ModelName); err != nil {
			return err
		}
		return repos.ProductRepo().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	resp := ToProductResponse(product, owner.Name)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) networkNames(ctx context.Context, products []supplychain.Product) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.NetworkID)
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	networks, err := s.networkRepo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, n := range networks {
		names[n.ID] = n.Name
	}
	return names, nil
}
