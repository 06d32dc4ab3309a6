package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

// StoreConfig holds one external store's API credentials and sync state.
type StoreConfig struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name          string           `gorm:"column:name;not null;uniqueIndex"`
	Description   *string          `gorm:"column:description"`
	BaseURL       string           `gorm:"column:base_url;not null"`
	APIKey        string           `gorm:"column:api_key;not null"`
	APISecret     string           `gorm:"column:api_secret;not null"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	SyncStatus    enums.SyncStatus `gorm:"column:sync_status;not null;default:idle"`
	LastSyncAt    *time.Time       `gorm:"column:last_sync_at"`
	TotalProducts int              `gorm:"column:total_products;not null;default:0"`
	CreatedBy     *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	UpdatedBy     *uuid.UUID       `gorm:"column:updated_by;type:uuid"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreConfig) TableName() string { return "store_configs" }
