package storeconfig

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// Repository wires together store configuration persistence helpers.
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

// Create inserts a new store configuration row.
func (r *Repository) Create(ctx context.Context, config *models.StoreConfig) (*models.StoreConfig, error) {
	if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}

// Update saves the full configuration row.
func (r *Repository) Update(ctx context.Context, config *models.StoreConfig) (*models.StoreConfig, error) {
	if err := r.db.WithContext(ctx).Save(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}

// FindByID loads one configuration.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StoreConfig, error) {
	var config models.StoreConfig
	if err := r.db.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// FindByName loads one configuration by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.StoreConfig, error) {
	var config models.StoreConfig
	if err := r.db.WithContext(ctx).First(&config, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// List returns one page of configurations ordered by creation time.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.StoreConfig, int64, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StoreConfig{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var configs []models.StoreConfig
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&configs).Error; err != nil {
		return nil, 0, err
	}
	return configs, total, nil
}

// Delete removes the configuration row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StoreConfig{}, "id = ?", id).Error
}

// CountCachedProducts returns how many live cache rows reference the config.
func (r *Repository) CountCachedProducts(ctx context.Context, configID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CachedProduct{}).
		Where("store_config_id = ?", configID).
		Count(&count).Error
	return count, err
}

// DeleteCachedProducts hard-deletes every cache row for the config.
func (r *Repository) DeleteCachedProducts(ctx context.Context, configID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("store_config_id = ?", configID).
		Delete(&models.CachedProduct{})
	return result.RowsAffected, result.Error
}
