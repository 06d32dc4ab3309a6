package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	dbtypes "github.com/mdzubayertalukder/dropship-backend/pkg/db/types"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// CachedProductDTO is the supplier catalog payload shown to tenants.
type CachedProductDTO struct {
	ID                uuid.UUID             `json:"id"`
	StoreConfigID     uuid.UUID             `json:"store_config_id"`
	ExternalProductID int64                 `json:"external_product_id"`
	Name              string                `json:"name"`
	Slug              string                `json:"slug"`
	Description       string                `json:"description,omitempty"`
	ShortDescription  string                `json:"short_description,omitempty"`
	Price             *float64              `json:"price,omitempty"`
	RegularPrice      *float64              `json:"regular_price,omitempty"`
	SalePrice         *float64              `json:"sale_price,omitempty"`
	SKU               string                `json:"sku,omitempty"`
	StockQuantity     int                   `json:"stock_quantity"`
	StockStatus       string                `json:"stock_status"`
	Categories        dbtypes.CategoryList  `json:"categories,omitempty"`
	Tags              dbtypes.TagList       `json:"tags,omitempty"`
	Images            dbtypes.ImageList     `json:"images,omitempty"`
	Attributes        dbtypes.AttributeList `json:"attributes,omitempty"`
	Status            string                `json:"status"`
	Featured          bool                  `json:"featured"`
	LastSyncedAt      time.Time             `json:"last_synced_at"`
}

// ProductListResult is one page of the supplier catalog.
type ProductListResult struct {
	Products []CachedProductDTO `json:"products"`
	Meta     pagination.Meta    `json:"meta"`
}

// StoreSummaryDTO is the tenant-visible view of a supplier store. Credentials
// never appear here.
type StoreSummaryDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	TotalProducts int        `json:"total_products"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
}

// NewCachedProductDTO builds a DTO from the cache row.
func NewCachedProductDTO(product *models.CachedProduct) *CachedProductDTO {
	return &CachedProductDTO{
		ID:                product.ID,
		StoreConfigID:     product.StoreConfigID,
		ExternalProductID: product.ExternalProductID,
		Name:              product.Name,
		Slug:              product.Slug,
		Description:       product.Description,
		ShortDescription:  product.ShortDescription,
		Price:             product.Price,
		RegularPrice:      product.RegularPrice,
		SalePrice:         product.SalePrice,
		SKU:               product.SKU,
		StockQuantity:     product.StockQuantity,
		StockStatus:       product.StockStatus.String(),
		Categories:        product.Categories,
		Tags:              product.Tags,
		Images:            product.Images,
		Attributes:        product.Attributes,
		Status:            product.Status.String(),
		Featured:          product.Featured,
		LastSyncedAt:      product.LastSyncedAt,
	}
}

// NewStoreSummaryDTO builds the tenant view of a store config.
func NewStoreSummaryDTO(config *models.StoreConfig) StoreSummaryDTO {
	return StoreSummaryDTO{
		ID:            config.ID,
		Name:          config.Name,
		Description:   config.Description,
		TotalProducts: config.TotalProducts,
		LastSyncAt:    config.LastSyncAt,
	}
}
