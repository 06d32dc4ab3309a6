package planlimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

// Repository persists plan limit rows and reads import aggregates.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPackageID loads the quota row for one subscription package.
func (r *Repository) FindByPackageID(ctx context.Context, packageID uuid.UUID) (*models.PlanLimit, error) {
	var limit models.PlanLimit
	if err := r.db.WithContext(ctx).First(&limit, "package_id = ?", packageID).Error; err != nil {
		return nil, err
	}
	return &limit, nil
}

// Create inserts a new quota row.
func (r *Repository) Create(ctx context.Context, limit *models.PlanLimit) (*models.PlanLimit, error) {
	if err := r.db.WithContext(ctx).Create(limit).Error; err != nil {
		return nil, err
	}
	return limit, nil
}

// Update saves the full quota row.
func (r *Repository) Update(ctx context.Context, limit *models.PlanLimit) (*models.PlanLimit, error) {
	if err := r.db.WithContext(ctx).Save(limit).Error; err != nil {
		return nil, err
	}
	return limit, nil
}

// List returns every configured quota row.
func (r *Repository) List(ctx context.Context) ([]models.PlanLimit, error) {
	var limits []models.PlanLimit
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&limits).Error; err != nil {
		return nil, err
	}
	return limits, nil
}

// Delete removes the quota row for the package.
func (r *Repository) Delete(ctx context.Context, packageID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PlanLimit{}, "package_id = ?", packageID).Error
}

type importAggregate struct {
	TenantID uuid.UUID
	Status   string
	Count    int64
}

// ImportReport aggregates import activity per tenant since the given month start.
func (r *Repository) ImportReport(ctx context.Context, monthStart time.Time) ([]TenantImportReportRow, error) {
	var byStatus []importAggregate
	if err := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Select("tenant_id, status, COUNT(*) AS count").
		Group("tenant_id, status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	var monthly []importAggregate
	if err := r.db.WithContext(ctx).
		Model(&models.ImportRecord{}).
		Select("tenant_id, COUNT(*) AS count").
		Where("status = ? AND created_at >= ?", enums.ImportStatusCompleted, monthStart).
		Group("tenant_id").
		Scan(&monthly).Error; err != nil {
		return nil, err
	}

	rows := map[uuid.UUID]*TenantImportReportRow{}
	order := []uuid.UUID{}
	rowFor := func(tenantID uuid.UUID) *TenantImportReportRow {
		if row, ok := rows[tenantID]; ok {
			return row
		}
		row := &TenantImportReportRow{TenantID: tenantID}
		rows[tenantID] = row
		order = append(order, tenantID)
		return row
	}

	for _, agg := range byStatus {
		row := rowFor(agg.TenantID)
		row.TotalImports += agg.Count
		switch agg.Status {
		case enums.ImportStatusCompleted.String():
			row.Completed += agg.Count
		case enums.ImportStatusFailed.String():
			row.Failed += agg.Count
		}
	}
	for _, agg := range monthly {
		rowFor(agg.TenantID).ImportedThisMonth = agg.Count
	}

	report := make([]TenantImportReportRow, 0, len(order))
	for _, tenantID := range order {
		report = append(report, *rows[tenantID])
	}
	return report, nil
}
