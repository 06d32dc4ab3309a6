package planlimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
)

// Default quota values applied when a package has no explicit row.
const (
	DefaultMonthlyImportLimit = 100
	DefaultTotalImportLimit   = models.UnlimitedImports
	DefaultBulkImportLimit    = 20
)

// Service manages per-package import quotas.
type Service interface {
	GetLimits(ctx context.Context, packageID uuid.UUID) (*PlanLimitDTO, error)
	UpsertLimits(ctx context.Context, packageID uuid.UUID, input UpsertInput) (*PlanLimitDTO, error)
	ListLimits(ctx context.Context) ([]PlanLimitDTO, error)
	DeleteLimits(ctx context.Context, packageID uuid.UUID) error
	ImportReport(ctx context.Context, now time.Time) ([]TenantImportReportRow, error)
}

// UpsertInput holds the validated quota payload.
type UpsertInput struct {
	MonthlyImportLimit   *int
	TotalImportLimit     *int
	BulkImportLimit      *int
	AutoSyncEnabled      *bool
	MarkupMin            *float64
	MarkupMax            *float64
	AllowedCategories    []string
	RestrictedCategories []string
}

type service struct {
	repo *Repository
}

// NewService constructs a plan limit service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plan limit repository required")
	}
	return &service{repo: repo}, nil
}

// DefaultLimits materializes the built-in quota for a package.
func DefaultLimits(packageID uuid.UUID) *models.PlanLimit {
	return &models.PlanLimit{
		PackageID:          packageID,
		MonthlyImportLimit: DefaultMonthlyImportLimit,
		TotalImportLimit:   DefaultTotalImportLimit,
		BulkImportLimit:    DefaultBulkImportLimit,
	}
}

// GetLimits returns the configured quota, falling back to the defaults.
func (s *service) GetLimits(ctx context.Context, packageID uuid.UUID) (*PlanLimitDTO, error) {
	limit, err := s.repo.FindByPackageID(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewPlanLimitDTO(DefaultLimits(packageID), true), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading plan limits")
	}
	return NewPlanLimitDTO(limit, false), nil
}

// UpsertLimits creates or updates the quota row for the package.
func (s *service) UpsertLimits(ctx context.Context, packageID uuid.UUID, input UpsertInput) (*PlanLimitDTO, error) {
	if input.MarkupMin != nil && *input.MarkupMin < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "markup_min cannot be negative")
	}
	if input.MarkupMin != nil && input.MarkupMax != nil && *input.MarkupMax < *input.MarkupMin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "markup_max cannot be below markup_min")
	}

	limit, err := s.repo.FindByPackageID(ctx, packageID)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading plan limits")
		}
		limit = DefaultLimits(packageID)
		created = true
	}

	if input.MonthlyImportLimit != nil {
		limit.MonthlyImportLimit = *input.MonthlyImportLimit
	}
	if input.TotalImportLimit != nil {
		limit.TotalImportLimit = *input.TotalImportLimit
	}
	if input.BulkImportLimit != nil {
		limit.BulkImportLimit = *input.BulkImportLimit
	}
	if input.AutoSyncEnabled != nil {
		limit.AutoSyncEnabled = *input.AutoSyncEnabled
	}
	if input.MarkupMin != nil {
		limit.MarkupMin = input.MarkupMin
	}
	if input.MarkupMax != nil {
		limit.MarkupMax = input.MarkupMax
	}
	if input.AllowedCategories != nil {
		limit.AllowedCategories = pq.StringArray(input.AllowedCategories)
	}
	if input.RestrictedCategories != nil {
		limit.RestrictedCategories = pq.StringArray(input.RestrictedCategories)
	}

	var saved *models.PlanLimit
	if created {
		saved, err = s.repo.Create(ctx, limit)
	} else {
		saved, err = s.repo.Update(ctx, limit)
	}
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "plan limits already configured for package")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving plan limits")
	}
	return NewPlanLimitDTO(saved, false), nil
}

// ListLimits returns every configured quota row.
func (s *service) ListLimits(ctx context.Context) ([]PlanLimitDTO, error) {
	limits, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing plan limits")
	}
	dtos := make([]PlanLimitDTO, len(limits))
	for i := range limits {
		dtos[i] = *NewPlanLimitDTO(&limits[i], false)
	}
	return dtos, nil
}

// DeleteLimits removes the quota row so the package falls back to defaults.
func (s *service) DeleteLimits(ctx context.Context, packageID uuid.UUID) error {
	if _, err := s.repo.FindByPackageID(ctx, packageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "plan limits not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading plan limits")
	}
	if err := s.repo.Delete(ctx, packageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting plan limits")
	}
	return nil
}

// ImportReport aggregates import activity per tenant for the current
// calendar month in UTC.
func (s *service) ImportReport(ctx context.Context, now time.Time) ([]TenantImportReportRow, error) {
	monthStart := MonthStart(now)
	report, err := s.repo.ImportReport(ctx, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "building import report")
	}
	return report, nil
}

// MonthStart returns the first instant of now's month in UTC.
func MonthStart(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
}
