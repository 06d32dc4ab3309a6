package sync

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
)

// Repository persists sync state and cache rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindConfig loads the store configuration driving a sync run.
func (r *Repository) FindConfig(ctx context.Context, id uuid.UUID) (*models.StoreConfig, error) {
	var config models.StoreConfig
	if err := r.db.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig persists the sync bookkeeping fields.
func (r *Repository) SaveConfig(ctx context.Context, config *models.StoreConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// UpsertProduct inserts or refreshes a cache row keyed by the config and
// external product id. A resurrected product loses its soft-delete mark.
func (r *Repository) UpsertProduct(ctx context.Context, product *models.CachedProduct) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_config_id"}, {Name: "external_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "slug", "description", "short_description",
			"price", "regular_price", "sale_price", "sku",
			"stock_quantity", "stock_status",
			"categories", "tags", "images", "attributes",
			"status", "featured",
			"external_created_at", "external_updated_at",
			"last_synced_at", "updated_at", "deleted_at",
		}),
	}).Create(product).Error
}

// CountProducts returns the live cache row count for the config.
func (r *Repository) CountProducts(ctx context.Context, configID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CachedProduct{}).
		Where("store_config_id = ?", configID).
		Count(&count).Error
	return count, err
}
