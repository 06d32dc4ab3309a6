package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductAttribute stores one attribute per row with its options joined into
// a display string.
type ProductAttribute struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Value       string    `gorm:"column:value"`
	IsVariation bool      `gorm:"column:is_variation;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductAttribute) TableName() string { return "product_attributes" }
