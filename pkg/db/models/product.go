package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

// Product is the tenant-owned catalog row created by an import. SKU and slug
// are unique per tenant.
type Product struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	TenantID         uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_products_tenant_sku,priority:1;uniqueIndex:idx_products_tenant_slug,priority:1"`
	Name             string              `gorm:"column:name;not null"`
	Slug             string              `gorm:"column:slug;not null;uniqueIndex:idx_products_tenant_slug,priority:2"`
	SKU              string              `gorm:"column:sku;not null;uniqueIndex:idx_products_tenant_sku,priority:2"`
	Description      string              `gorm:"column:description"`
	ShortDescription string              `gorm:"column:short_description"`
	Price            float64             `gorm:"column:price;type:numeric(12,2);not null"`
	RegularPrice     float64             `gorm:"column:regular_price;type:numeric(12,2);not null"`
	SalePrice        *float64            `gorm:"column:sale_price;type:numeric(12,2)"`
	StockQuantity    int                 `gorm:"column:stock_quantity;not null;default:0"`
	StockStatus      enums.StockStatus   `gorm:"column:stock_status;not null;default:instock"`
	Status           enums.ProductStatus `gorm:"column:status;not null;default:publish"`
	Featured         bool                `gorm:"column:featured;not null;default:false"`
	SourceConfigID   *uuid.UUID          `gorm:"column:source_config_id;type:uuid"`
	SourceProductID  *int64              `gorm:"column:source_product_id"`
	MarkupPercent    *float64            `gorm:"column:markup_percent;type:numeric(8,2)"`
	OriginalPrice    *float64            `gorm:"column:original_price;type:numeric(12,2)"`
	CreatedBy        *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
