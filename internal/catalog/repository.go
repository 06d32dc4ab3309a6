package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// ProductFilters describe the supported filter knobs for the browse endpoint.
type ProductFilters struct {
	StoreConfigID *uuid.UUID
	Query         string
	Category      string
	StockStatus   *enums.StockStatus
	PriceMin      *float64
	PriceMax      *float64
	Featured      *bool
}

// Repository reads the supplier catalog cache.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns one page of published cache rows from active stores.
func (r *Repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.CachedProduct, int64, error) {
	params = params.Normalize()
	query := r.browseScope(ctx)
	query = applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.CachedProduct
	if err := query.
		Order("cached_products.name ASC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindProduct loads one published cache row from an active store.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.CachedProduct, error) {
	var product models.CachedProduct
	if err := r.browseScope(ctx).First(&product, "cached_products.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActiveStores returns every active supplier store.
func (r *Repository) ListActiveStores(ctx context.Context) ([]models.StoreConfig, error) {
	var configs []models.StoreConfig
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// browseScope restricts reads to publishable products of active stores.
func (r *Repository) browseScope(ctx context.Context) *gorm.DB {
	activeConfigs := r.db.Model(&models.StoreConfig{}).Select("id").Where("is_active = ?", true)
	return r.db.WithContext(ctx).
		Model(&models.CachedProduct{}).
		Where("cached_products.status = ?", enums.ProductStatusPublish).
		Where("cached_products.store_config_id IN (?)", activeConfigs)
}

func applyFilters(query *gorm.DB, filters ProductFilters) *gorm.DB {
	if filters.StoreConfigID != nil {
		query = query.Where("cached_products.store_config_id = ?", *filters.StoreConfigID)
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(trimmed))
		query = query.Where("LOWER(cached_products.name) LIKE ? OR LOWER(cached_products.sku) LIKE ?", pattern, pattern)
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		// categories is a JSON text column; match on the serialized name field
		query = query.Where("cached_products.categories LIKE ?", fmt.Sprintf(`%%"name":%q%%`, category))
	}
	if filters.StockStatus != nil {
		query = query.Where("cached_products.stock_status = ?", *filters.StockStatus)
	}
	if filters.PriceMin != nil {
		query = query.Where("COALESCE(cached_products.price, cached_products.regular_price) >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("COALESCE(cached_products.price, cached_products.regular_price) <= ?", *filters.PriceMax)
	}
	if filters.Featured != nil {
		query = query.Where("cached_products.featured = ?", *filters.Featured)
	}
	return query
}
