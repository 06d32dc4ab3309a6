package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductTag is a tenant-scoped tag, created on demand by imports.
type ProductTag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_product_tags_tenant_name,priority:1"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_product_tags_tenant_name,priority:2"`
	Slug      string    `gorm:"column:slug;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductTag) TableName() string { return "product_tags" }

// ProductTagLink associates a product with a tag.
type ProductTagLink struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;primaryKey"`
	TagID     uuid.UUID `gorm:"column:tag_id;type:uuid;not null;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductTagLink) TableName() string { return "product_tag_links" }
