package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UnlimitedImports is the canonical sentinel for "no limit". Any negative
// value is treated as unlimited.
const UnlimitedImports = -1

// PlanLimit is the per-subscription-package import quota configuration.
type PlanLimit struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	PackageID            uuid.UUID      `gorm:"column:package_id;type:uuid;not null;uniqueIndex"`
	MonthlyImportLimit   int            `gorm:"column:monthly_import_limit;not null;default:100"`
	TotalImportLimit     int            `gorm:"column:total_import_limit;not null;default:-1"`
	BulkImportLimit      int            `gorm:"column:bulk_import_limit;not null;default:20"`
	AutoSyncEnabled      bool           `gorm:"column:auto_sync_enabled;not null;default:false"`
	MarkupMin            *float64       `gorm:"column:markup_min;type:numeric(8,2)"`
	MarkupMax            *float64       `gorm:"column:markup_max;type:numeric(8,2)"`
	AllowedCategories    pq.StringArray `gorm:"column:allowed_categories;type:text[]"`
	RestrictedCategories pq.StringArray `gorm:"column:restricted_categories;type:text[]"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (PlanLimit) TableName() string { return "plan_limits" }

// Unlimited reports whether a limit value means "no cap".
func Unlimited(limit int) bool {
	return limit < 0
}

// MarkupAllowed checks a markup percentage against the configured bounds.
func (p PlanLimit) MarkupAllowed(markup float64) bool {
	if p.MarkupMin != nil && markup < *p.MarkupMin {
		return false
	}
	if p.MarkupMax != nil && markup > *p.MarkupMax {
		return false
	}
	return true
}

// CategoryAllowed applies the allow/deny category lists. An empty allow list
// permits everything not explicitly restricted.
func (p PlanLimit) CategoryAllowed(name string) bool {
	for _, restricted := range p.RestrictedCategories {
		if restricted == name {
			return false
		}
	}
	if len(p.AllowedCategories) == 0 {
		return true
	}
	for _, allowed := range p.AllowedCategories {
		if allowed == name {
			return true
		}
	}
	return false
}
