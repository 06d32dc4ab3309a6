package imports

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// ImportRecordDTO is one row of a tenant's import history.
type ImportRecordDTO struct {
	ID              uuid.UUID  `json:"id"`
	StoreConfigID   uuid.UUID  `json:"store_config_id"`
	CachedProductID uuid.UUID  `json:"cached_product_id"`
	LocalProductID  *uuid.UUID `json:"local_product_id,omitempty"`
	ImportType      string     `json:"import_type"`
	Status          string     `json:"status"`
	MarkupPercent   float64    `json:"markup_percent"`
	OriginalPrice   *float64   `json:"original_price,omitempty"`
	FinalPrice      *float64   `json:"final_price,omitempty"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	ImportedAt      *time.Time `json:"imported_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ImportResultDTO reports one successful import.
type ImportResultDTO struct {
	Record  ImportRecordDTO `json:"record"`
	Product ProductDTO      `json:"product"`
}

// ProductDTO is the tenant catalog product created by an import.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	SKU           string    `json:"sku"`
	Price         float64   `json:"price"`
	RegularPrice  float64   `json:"regular_price"`
	SalePrice     *float64  `json:"sale_price,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	StockStatus   string    `json:"stock_status"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// BulkItemError describes one failed or skipped item in a bulk batch.
type BulkItemError struct {
	CachedProductID uuid.UUID `json:"cached_product_id"`
	Reason          string    `json:"reason"`
}

// BulkImportResultDTO summarizes a bulk batch. The batch never aborts on
// individual failures.
type BulkImportResultDTO struct {
	Requested int               `json:"requested"`
	Imported  int               `json:"imported"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Results   []ImportResultDTO `json:"results,omitempty"`
	Errors    []BulkItemError   `json:"errors,omitempty"`
}

// PricingPreviewDTO shows the effect of a markup before importing.
type PricingPreviewDTO struct {
	CachedProductID uuid.UUID `json:"cached_product_id"`
	MarkupPercent   float64   `json:"markup_percent"`
	OriginalPrice   float64   `json:"original_price"`
	FinalPrice      float64   `json:"final_price"`
	OriginalSale    *float64  `json:"original_sale_price,omitempty"`
	FinalSale       *float64  `json:"final_sale_price,omitempty"`
}

// HistoryResult is one page of the tenant's import history.
type HistoryResult struct {
	Records []ImportRecordDTO `json:"records"`
	Meta    pagination.Meta   `json:"meta"`
}

// NewImportRecordDTO builds a DTO from the persisted record.
func NewImportRecordDTO(record *models.ImportRecord) ImportRecordDTO {
	return ImportRecordDTO{
		ID:              record.ID,
		StoreConfigID:   record.StoreConfigID,
		CachedProductID: record.CachedProductID,
		LocalProductID:  record.LocalProductID,
		ImportType:      record.ImportType.String(),
		Status:          record.Status.String(),
		MarkupPercent:   record.MarkupPercent,
		OriginalPrice:   record.OriginalPrice,
		FinalPrice:      record.FinalPrice,
		ErrorMessage:    record.ErrorMessage,
		ImportedAt:      record.ImportedAt,
		CreatedAt:       record.CreatedAt,
	}
}

// NewProductDTO builds a DTO from the created catalog row.
func NewProductDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		SKU:           product.SKU,
		Price:         product.Price,
		RegularPrice:  product.RegularPrice,
		SalePrice:     product.SalePrice,
		StockQuantity: product.StockQuantity,
		StockStatus:   product.StockStatus.String(),
		Status:        product.Status.String(),
		CreatedAt:     product.CreatedAt,
	}
}
