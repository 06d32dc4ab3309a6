package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	planlimit "github.com/mdzubayertalukder/dropship-backend/internal/planlimits"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
)

// Rejection reasons surfaced in quota error details and metrics labels.
const (
	ReasonTotalLimit       = "total_limit"
	ReasonMonthlyLimit     = "monthly_limit"
	ReasonBulkLimit        = "bulk_limit"
	ReasonMonthlyRemaining = "monthly_remaining"
)

// UsageDTO reports a tenant's current consumption against its plan.
type UsageDTO struct {
	PackageID          uuid.UUID `json:"package_id"`
	MonthlyImportLimit int       `json:"monthly_import_limit"`
	TotalImportLimit   int       `json:"total_import_limit"`
	BulkImportLimit    int       `json:"bulk_import_limit"`
	TotalImported      int64     `json:"total_imported"`
	ImportedThisMonth  int64     `json:"imported_this_month"`
	MonthlyRemaining   *int64    `json:"monthly_remaining,omitempty"`
}

type planReader interface {
	FindByPackageID(ctx context.Context, packageID uuid.UUID) (*models.PlanLimit, error)
}

type usageCounter interface {
	CountCompleted(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountCompletedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// Guard enforces per-plan import quotas. All checks run in UTC calendar
// months.
type Guard struct {
	plans planReader
	usage usageCounter
	now   func() time.Time
}

// NewGuard constructs a quota guard.
func NewGuard(plans planReader, usage usageCounter) (*Guard, error) {
	if plans == nil {
		return nil, fmt.Errorf("plan reader required")
	}
	if usage == nil {
		return nil, fmt.Errorf("usage counter required")
	}
	return &Guard{plans: plans, usage: usage, now: time.Now}, nil
}

// CheckImportAllowed verifies that the tenant may import quantity more
// products under its package plan. The checks run in a fixed order: total
// cap, monthly cap, bulk batch size, then remaining monthly headroom.
func (g *Guard) CheckImportAllowed(ctx context.Context, tenantID, packageID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "import quantity must be positive")
	}

	plan, err := g.loadPlan(ctx, packageID)
	if err != nil {
		return err
	}

	totalImported, err := g.usage.CountCompleted(ctx, tenantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting total imports")
	}
	if !models.Unlimited(plan.TotalImportLimit) && totalImported >= int64(plan.TotalImportLimit) {
		return quotaError(ReasonTotalLimit, fmt.Sprintf("total import limit of %d reached", plan.TotalImportLimit))
	}

	monthStart := planlimit.MonthStart(g.now())
	monthImported, err := g.usage.CountCompletedSince(ctx, tenantID, monthStart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting monthly imports")
	}
	if !models.Unlimited(plan.MonthlyImportLimit) && monthImported >= int64(plan.MonthlyImportLimit) {
		return quotaError(ReasonMonthlyLimit, fmt.Sprintf("monthly import limit of %d reached", plan.MonthlyImportLimit))
	}

	if quantity > 1 && !models.Unlimited(plan.BulkImportLimit) && quantity > plan.BulkImportLimit {
		return quotaError(ReasonBulkLimit, fmt.Sprintf("bulk imports are capped at %d products per batch", plan.BulkImportLimit))
	}

	if !models.Unlimited(plan.MonthlyImportLimit) {
		remaining := int64(plan.MonthlyImportLimit) - monthImported
		if int64(quantity) > remaining {
			return quotaError(ReasonMonthlyRemaining, fmt.Sprintf("only %d imports remaining this month", remaining))
		}
	}
	return nil
}

// Usage reports the tenant's consumption against its plan.
func (g *Guard) Usage(ctx context.Context, tenantID, packageID uuid.UUID) (*UsageDTO, error) {
	plan, err := g.loadPlan(ctx, packageID)
	if err != nil {
		return nil, err
	}

	totalImported, err := g.usage.CountCompleted(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting total imports")
	}
	monthImported, err := g.usage.CountCompletedSince(ctx, tenantID, planlimit.MonthStart(g.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting monthly imports")
	}

	dto := &UsageDTO{
		PackageID:          packageID,
		MonthlyImportLimit: plan.MonthlyImportLimit,
		TotalImportLimit:   plan.TotalImportLimit,
		BulkImportLimit:    plan.BulkImportLimit,
		TotalImported:      totalImported,
		ImportedThisMonth:  monthImported,
	}
	if !models.Unlimited(plan.MonthlyImportLimit) {
		remaining := int64(plan.MonthlyImportLimit) - monthImported
		if remaining < 0 {
			remaining = 0
		}
		dto.MonthlyRemaining = &remaining
	}
	return dto, nil
}

// Plan returns the effective plan for the package, falling back to defaults.
func (g *Guard) Plan(ctx context.Context, packageID uuid.UUID) (*models.PlanLimit, error) {
	return g.loadPlan(ctx, packageID)
}

func (g *Guard) loadPlan(ctx context.Context, packageID uuid.UUID) (*models.PlanLimit, error) {
	plan, err := g.plans.FindByPackageID(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planlimit.DefaultLimits(packageID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading plan limits")
	}
	return plan, nil
}

func quotaError(reason, message string) error {
	return pkgerrors.New(pkgerrors.CodeQuotaExceeded, message).
		WithDetails(map[string]string{"reason": reason})
}

// UsageRepository counts completed imports straight from the records table.
type UsageRepository struct {
	db *gorm.DB
}

// NewUsageRepository builds the default usage counter.
func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// CountCompleted returns the tenant's lifetime completed import count.
func (r *UsageRepository) CountCompleted(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Where("tenant_id = ? AND status = ?", tenantID, enums.ImportStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountCompletedSince returns imports that completed at or after since.
func (r *UsageRepository) CountCompletedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Where("tenant_id = ? AND status = ? AND imported_at >= ?", tenantID, enums.ImportStatusCompleted, since).
		Count(&count).Error
	return count, err
}
