package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

// ImportRecord is the audit/state row for one tenant's attempt to bring a
// cached product into their own catalog. At most one completed record may
// exist per (tenant_id, cached_product_id); a partial unique index enforces
// it.
type ImportRecord struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	TenantID        uuid.UUID          `gorm:"column:tenant_id;type:uuid;not null;index"`
	StoreConfigID   uuid.UUID          `gorm:"column:store_config_id;type:uuid;not null"`
	CachedProductID uuid.UUID          `gorm:"column:cached_product_id;type:uuid;not null"`
	LocalProductID  *uuid.UUID         `gorm:"column:local_product_id;type:uuid"`
	ImportType      enums.ImportType   `gorm:"column:import_type;not null;default:single"`
	Status          enums.ImportStatus `gorm:"column:status;not null;default:pending"`
	MarkupPercent   float64            `gorm:"column:markup_percent;type:numeric(8,2);not null;default:0"`
	OriginalPrice   *float64           `gorm:"column:original_price;type:numeric(12,2)"`
	FinalPrice      *float64           `gorm:"column:final_price;type:numeric(12,2)"`
	ErrorMessage    *string            `gorm:"column:error_message"`
	ImportedAt      *time.Time         `gorm:"column:imported_at"`
	ImportedBy      *uuid.UUID         `gorm:"column:imported_by;type:uuid"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (ImportRecord) TableName() string { return "import_records" }
