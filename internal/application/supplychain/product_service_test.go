package supplychain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplynet/backend/internal/domain/shared"
	"github.com/supplynet/backend/internal/domain/supplychain"
)

func TestProductService_Create(t *testing.T) {
	r := newTestRepos()
	svc := NewProductService(r.scope, r.products, r.networks, nil)
	ctx := context.Background()
	owner := newNetwork(t, "Retail", nil)

	r.networks.On("FindByID", ctx, owner.ID).Return(owner, nil)
	r.products.On("Save", ctx, mock.AnythingOfType("*supplychain.Product")).Return(nil)

	resp, err := svc.Create(ctx, ProductRequest{Name: "Phone", ModelName: "P1", NetworkID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "Retail", resp.Network)
	assert.Equal(t, owner.ID, resp.NetworkID)
	assert.False(t, resp.ReleaseDate.IsZero())
	r.assertExpectations(t)
}

func TestProductService_Create_UnknownNetwork(t *testing.T) {
	r := newTestRepos()
	svc := NewProductService(r.scope, r.products, r.networks, nil)
	ctx := context.Background()
	id := uuid.New()

	r.networks.On("FindByID", ctx, id).Return(nil, supplychain.ErrNetworkNotFound)

	_, err := svc.Create(ctx, ProductRequest{Name: "Phone", NetworkID: id})
	assert.ErrorIs(t, err, supplychain.ErrNetworkNotFound)
	r.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_List_ResolvesNetworkNames(t *testing.T) {
	r := newTestRepos()
	svc := NewProductService(r.scope, r.products, r.networks, nil)
	ctx := context.Background()

	owner := newNetwork(t, "Factory", nil)
	p1, _ := supplychain.NewProduct(owner.ID, "A", "")
	p2, _ := supplychain.NewProduct(owner.ID, "B", "")

	r.products.On("FindAll", ctx, mock.MatchedBy(func(f supplychain.ProductFilter) bool {
		return f.NetworkID != nil && *f.NetworkID == owner.ID
	})).Return([]supplychain.Product{*p1, *p2}, int64(2), nil)
	r.networks.On("FindByIDs", ctx, []uuid.UUID{owner.ID}).Return([]supplychain.Network{*owner}, nil)

	items, total, err := svc.List(ctx, ProductListFilter{NetworkID: owner.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Factory", items[0].Network)
	assert.Equal(t, "Factory", items[1].Network)

	_, _, err = svc.List(ctx, ProductListFilter{NetworkID: "bad"})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	r := newTestRepos()
	svc := NewProductService(r.scope, r.products, r.networks, nil)
	ctx := context.Background()

	first := newNetwork(t, "First", nil)
	second := newNetwork(t, "Second", nil)
	p, _ := supplychain.NewProduct(first.ID, "A", "")

	r.products.On("FindByID", ctx, p.ID).Return(p, nil)
	r.networks.On("FindByID", ctx, second.ID).Return(second, nil)
	r.products.On("Save", ctx, p).Return(nil)
	r.products.On("Delete", ctx, p.ID).Return(nil)

	resp, err := svc.Update(ctx, p.ID, ProductRequest{Name: "A2", NetworkID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Second", resp.Network)
	assert.Equal(t, "A2", resp.Name)

	require.NoError(t, svc.Delete(ctx, p.ID))
	r.assertExpectations(t)
}
