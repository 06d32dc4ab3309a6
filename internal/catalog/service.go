package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// Service exposes the tenant-facing supplier catalog.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*CachedProductDTO, error)
	ListStores(ctx context.Context) ([]StoreSummaryDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns one filtered page of the supplier catalog.
func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductListResult, error) {
	params = params.Normalize()
	products, total, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing catalog products")
	}

	dtos := make([]CachedProductDTO, len(products))
	for i := range products {
		dtos[i] = *NewCachedProductDTO(&products[i])
	}
	return &ProductListResult{
		Products: dtos,
		Meta:     pagination.NewMeta(params, total),
	}, nil
}

// GetProduct loads one catalog product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*CachedProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog product")
	}
	return NewCachedProductDTO(product), nil
}

// ListStores returns every active supplier store without credentials.
func (s *service) ListStores(ctx context.Context) ([]StoreSummaryDTO, error) {
	configs, err := s.repo.ListActiveStores(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing supplier stores")
	}
	summaries := make([]StoreSummaryDTO, len(configs))
	for i := range configs {
		summaries[i] = NewStoreSummaryDTO(&configs[i])
	}
	return summaries, nil
}
