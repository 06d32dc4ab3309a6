package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory is a tenant-scoped category, created on demand by imports.
type ProductCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_product_categories_tenant_name,priority:1"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_product_categories_tenant_name,priority:2"`
	Slug        string    `gorm:"column:slug;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductCategory) TableName() string { return "product_categories" }

// ProductCategoryLink associates a product with a category.
type ProductCategoryLink struct {
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;not null;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductCategoryLink) TableName() string { return "product_category_links" }
