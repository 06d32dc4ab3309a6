package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/mdzubayertalukder/dropship-backend/pkg/db/types"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

// CachedProduct is the local mirror of one external product, refreshed by
// sync. (store_config_id, external_product_id) is unique; re-sync updates in
// place.
type CachedProduct struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	StoreConfigID     uuid.UUID             `gorm:"column:store_config_id;type:uuid;not null;uniqueIndex:idx_cached_products_config_external"`
	ExternalProductID int64                 `gorm:"column:external_product_id;not null;uniqueIndex:idx_cached_products_config_external"`
	Name              string                `gorm:"column:name;not null"`
	Slug              string                `gorm:"column:slug;not null"`
	Description       string                `gorm:"column:description"`
	ShortDescription  string                `gorm:"column:short_description"`
	Price             *float64              `gorm:"column:price;type:numeric(12,2)"`
	RegularPrice      *float64              `gorm:"column:regular_price;type:numeric(12,2)"`
	SalePrice         *float64              `gorm:"column:sale_price;type:numeric(12,2)"`
	SKU               string                `gorm:"column:sku"`
	StockQuantity     int                   `gorm:"column:stock_quantity;not null;default:0"`
	StockStatus       enums.StockStatus     `gorm:"column:stock_status;not null;default:instock"`
	Categories        dbtypes.CategoryList  `gorm:"column:categories;type:text"`
	Tags              dbtypes.TagList       `gorm:"column:tags;type:text"`
	Images            dbtypes.ImageList     `gorm:"column:images;type:text"`
	Attributes        dbtypes.AttributeList `gorm:"column:attributes;type:text"`
	Status            enums.ProductStatus   `gorm:"column:status;not null;default:publish"`
	Featured          bool                  `gorm:"column:featured;not null;default:false"`
	ExternalCreatedAt *time.Time            `gorm:"column:external_created_at"`
	ExternalUpdatedAt *time.Time            `gorm:"column:external_updated_at"`
	LastSyncedAt      time.Time             `gorm:"column:last_synced_at;not null"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt        `gorm:"column:deleted_at;index"`
}

func (CachedProduct) TableName() string { return "cached_products" }

// BasePrice is the price the markup is applied to: regular price when the
// feed carries one, otherwise the plain price.
func (p CachedProduct) BasePrice() *float64 {
	if p.RegularPrice != nil {
		return p.RegularPrice
	}
	return p.Price
}
