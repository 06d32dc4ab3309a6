package imports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// HistoryFilters narrow a tenant's import history listing.
type HistoryFilters struct {
	Status     *enums.ImportStatus
	ImportType *enums.ImportType
}

// Repository persists import records and the tenant products they create.
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

// FindCachedProduct loads a cache row together with its store config.
func (r *Repository) FindCachedProduct(ctx context.Context, id uuid.UUID) (*models.CachedProduct, *models.StoreConfig, error) {
	var product models.CachedProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var config models.StoreConfig
	if err := r.db.WithContext(ctx).First(&config, "id = ?", product.StoreConfigID).Error; err != nil {
		return nil, nil, err
	}
	return &product, &config, nil
}

// HasCompletedImport reports whether the tenant already imported the product.
func (r *Repository) HasCompletedImport(ctx context.Context, tenantID, cachedProductID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Where("tenant_id = ? AND cached_product_id = ? AND status = ?",
			tenantID, cachedProductID, enums.ImportStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// CreateRecord inserts an import record.
func (r *Repository) CreateRecord(ctx context.Context, record *models.ImportRecord) (*models.ImportRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindRecord loads one of the tenant's import records.
func (r *Repository) FindRecord(ctx context.Context, tenantID, recordID uuid.UUID) (*models.ImportRecord, error) {
	var record models.ImportRecord
	if err := r.db.WithContext(ctx).
		First(&record, "id = ? AND tenant_id = ?", recordID, tenantID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecords returns one page of the tenant's import history, newest first.
func (r *Repository) ListRecords(ctx context.Context, tenantID uuid.UUID, filters HistoryFilters, params pagination.Params) ([]models.ImportRecord, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Where("tenant_id = ?", tenantID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ImportType != nil {
		query = query.Where("import_type = ?", *filters.ImportType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ImportRecord
	if err := query.
		Order("created_at DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// SKUExists reports whether the tenant already uses the SKU.
func (r *Repository) SKUExists(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		Count(&count).Error
	return count > 0, err
}

// SlugExists reports whether the tenant already uses the slug.
func (r *Repository) SlugExists(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("tenant_id = ? AND slug = ?", tenantID, slug).
		Count(&count).Error
	return count > 0, err
}

// CreateProduct inserts the tenant catalog row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindOrCreateCategory returns the tenant's category with the given name,
// creating it on first use.
func (r *Repository) FindOrCreateCategory(ctx context.Context, tenantID uuid.UUID, name, slug string) (*models.ProductCategory, error) {
	var category models.ProductCategory
	err := r.db.WithContext(ctx).
		First(&category, "tenant_id = ? AND name = ?", tenantID, name).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.ProductCategory{TenantID: tenantID, Name: name, Slug: slug}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindOrCreateTag returns the tenant's tag with the given name, creating it
// on first use.
func (r *Repository) FindOrCreateTag(ctx context.Context, tenantID uuid.UUID, name, slug string) (*models.ProductTag, error) {
	var tag models.ProductTag
	err := r.db.WithContext(ctx).
		First(&tag, "tenant_id = ? AND name = ?", tenantID, name).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tag = models.ProductTag{TenantID: tenantID, Name: name, Slug: slug}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// LinkCategory attaches the product to the category.
func (r *Repository) LinkCategory(ctx context.Context, productID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.ProductCategoryLink{
		ProductID:  productID,
		CategoryID: categoryID,
	}).Error
}

// LinkTag attaches the product to the tag.
func (r *Repository) LinkTag(ctx context.Context, productID, tagID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.ProductTagLink{
		ProductID: productID,
		TagID:     tagID,
	}).Error
}

// CreateImage inserts one product image row.
func (r *Repository) CreateImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// CreateAttribute inserts one product attribute row.
func (r *Repository) CreateAttribute(ctx context.Context, attribute *models.ProductAttribute) error {
	return r.db.WithContext(ctx).Create(attribute).Error
}

// DeleteRecord removes the import record so the product can be re-imported.
func (r *Repository) DeleteRecord(ctx context.Context, tenantID, recordID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, recordID).
		Delete(&models.ImportRecord{}).Error
}

// touchRecordTime keeps ImportedAt writes in one place.
func touchRecordTime() *time.Time {
	now := time.Now().UTC()
	return &now
}
