package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores one image per row; the first imported image is primary,
// the rest form the gallery.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	SourceURL string    `gorm:"column:source_url;not null"`
	AltText   string    `gorm:"column:alt_text"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductImage) TableName() string { return "product_images" }
