package storeconfig

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
)

// StoreConfigDTO is the store configuration payload returned to admins. The
// API secret never leaves the server.
type StoreConfigDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	BaseURL       string     `json:"base_url"`
	APIKey        string     `json:"api_key"`
	IsActive      bool       `json:"is_active"`
	SyncStatus    string     `json:"sync_status"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	TotalProducts int        `json:"total_products"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StoreConfigListResult is one page of configs.
type StoreConfigListResult struct {
	Configs []StoreConfigDTO `json:"configs"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int64            `json:"total"`
}

// ConnectionTestDTO reports the outcome of a credential probe.
type ConnectionTestDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewStoreConfigDTO builds a DTO from the persisted model.
func NewStoreConfigDTO(config *models.StoreConfig) *StoreConfigDTO {
	return &StoreConfigDTO{
		ID:            config.ID,
		Name:          config.Name,
		Description:   config.Description,
		BaseURL:       config.BaseURL,
		APIKey:        config.APIKey,
		IsActive:      config.IsActive,
		SyncStatus:    config.SyncStatus.String(),
		LastSyncAt:    config.LastSyncAt,
		TotalProducts: config.TotalProducts,
		CreatedAt:     config.CreatedAt,
		UpdatedAt:     config.UpdatedAt,
	}
}
