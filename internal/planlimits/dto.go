package planlimit

import (
	"time"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
)

// PlanLimitDTO is the quota configuration payload for one subscription package.
type PlanLimitDTO struct {
	ID                   uuid.UUID `json:"id"`
	PackageID            uuid.UUID `json:"package_id"`
	MonthlyImportLimit   int       `json:"monthly_import_limit"`
	TotalImportLimit     int       `json:"total_import_limit"`
	BulkImportLimit      int       `json:"bulk_import_limit"`
	AutoSyncEnabled      bool      `json:"auto_sync_enabled"`
	MarkupMin            *float64  `json:"markup_min,omitempty"`
	MarkupMax            *float64  `json:"markup_max,omitempty"`
	AllowedCategories    []string  `json:"allowed_categories,omitempty"`
	RestrictedCategories []string  `json:"restricted_categories,omitempty"`
	IsDefault            bool      `json:"is_default"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TenantImportReportRow aggregates import activity for one tenant.
type TenantImportReportRow struct {
	TenantID          uuid.UUID `json:"tenant_id"`
	TotalImports      int64     `json:"total_imports"`
	Completed         int64     `json:"completed"`
	Failed            int64     `json:"failed"`
	ImportedThisMonth int64     `json:"imported_this_month"`
}

// NewPlanLimitDTO builds a DTO from the persisted model.
func NewPlanLimitDTO(limit *models.PlanLimit, isDefault bool) *PlanLimitDTO {
	return &PlanLimitDTO{
		ID:                   limit.ID,
		PackageID:            limit.PackageID,
		MonthlyImportLimit:   limit.MonthlyImportLimit,
		TotalImportLimit:     limit.TotalImportLimit,
		BulkImportLimit:      limit.BulkImportLimit,
		AutoSyncEnabled:      limit.AutoSyncEnabled,
		MarkupMin:            limit.MarkupMin,
		MarkupMax:            limit.MarkupMax,
		AllowedCategories:    limit.AllowedCategories,
		RestrictedCategories: limit.RestrictedCategories,
		IsDefault:            isDefault,
		CreatedAt:            limit.CreatedAt,
		UpdatedAt:            limit.UpdatedAt,
	}
}
