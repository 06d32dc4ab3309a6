package quota

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
)

type stubPlans struct {
	plans map[uuid.UUID]*models.PlanLimit
}

func (s *stubPlans) FindByPackageID(_ context.Context, packageID uuid.UUID) (*models.PlanLimit, error) {
	if plan, ok := s.plans[packageID]; ok {
		return plan, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubUsage struct {
	total   int64
	monthly int64
}

func (s *stubUsage) CountCompleted(context.Context, uuid.UUID) (int64, error) {
	return s.total, nil
}

func (s *stubUsage) CountCompletedSince(context.Context, uuid.UUID, time.Time) (int64, error) {
	return s.monthly, nil
}

func newGuard(t *testing.T, plan *models.PlanLimit, usage *stubUsage) (*Guard, uuid.UUID) {
	t.Helper()
	packageID := uuid.New()
	plans := &stubPlans{plans: map[uuid.UUID]*models.PlanLimit{}}
	if plan != nil {
		plans.plans[packageID] = plan
	}
	guard, err := NewGuard(plans, usage)
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return guard, packageID
}

func quotaReason(t *testing.T, err error) string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeQuotaExceeded {
		t.Fatalf("expected quota error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected string map details, got %T", typed.Details())
	}
	return details["reason"]
}

func TestCheckImportAllowedDefaultsWhenNoPlan(t *testing.T) {
	guard, packageID := newGuard(t, nil, &stubUsage{monthly: 0})
	if err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 1); err != nil {
		t.Fatalf("expected default plan to allow import: %v", err)
	}
}

func TestCheckImportAllowedTotalLimit(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: 10, MonthlyImportLimit: 100, BulkImportLimit: 20}
	guard, packageID := newGuard(t, plan, &stubUsage{total: 10})

	err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 1)
	if reason := quotaReason(t, err); reason != ReasonTotalLimit {
		t.Fatalf("expected total limit rejection, got %s", reason)
	}
}

func TestCheckImportAllowedTotalLimitIgnoresBatchHeadroom(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: 10, MonthlyImportLimit: 100, BulkImportLimit: 20}
	guard, packageID := newGuard(t, plan, &stubUsage{total: 9})

	// The total cap only rejects once reached; batch headroom is a
	// monthly concern.
	if err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 5); err != nil {
		t.Fatalf("expected import below total cap to pass: %v", err)
	}
}

func TestCheckImportAllowedMonthlyLimit(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: -1, MonthlyImportLimit: 5, BulkImportLimit: 20}
	guard, packageID := newGuard(t, plan, &stubUsage{monthly: 5})

	err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 1)
	if reason := quotaReason(t, err); reason != ReasonMonthlyLimit {
		t.Fatalf("expected monthly limit rejection, got %s", reason)
	}
}

func TestCheckImportAllowedBulkLimit(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: -1, MonthlyImportLimit: 100, BulkImportLimit: 3}
	guard, packageID := newGuard(t, plan, &stubUsage{})

	err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 4)
	if reason := quotaReason(t, err); reason != ReasonBulkLimit {
		t.Fatalf("expected bulk limit rejection, got %s", reason)
	}

	// A single import is never a bulk batch.
	if err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 1); err != nil {
		t.Fatalf("single import must skip bulk check: %v", err)
	}
}

func TestCheckImportAllowedMonthlyRemaining(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: -1, MonthlyImportLimit: 10, BulkImportLimit: 20}
	guard, packageID := newGuard(t, plan, &stubUsage{monthly: 8})

	err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 3)
	if reason := quotaReason(t, err); reason != ReasonMonthlyRemaining {
		t.Fatalf("expected remaining headroom rejection, got %s", reason)
	}

	if err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 2); err != nil {
		t.Fatalf("expected fit within remaining headroom: %v", err)
	}
}

func TestNegativeLimitsMeanUnlimited(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: -1, MonthlyImportLimit: -5, BulkImportLimit: -1}
	guard, packageID := newGuard(t, plan, &stubUsage{total: 100000, monthly: 100000})

	if err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 500); err != nil {
		t.Fatalf("negative limits must disable checks: %v", err)
	}
}

func TestCheckImportAllowedRejectsNonPositiveQuantity(t *testing.T) {
	guard, packageID := newGuard(t, nil, &stubUsage{})
	err := guard.CheckImportAllowed(context.Background(), uuid.New(), packageID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUsageReportsRemaining(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: 100, MonthlyImportLimit: 10, BulkImportLimit: 20}
	guard, packageID := newGuard(t, plan, &stubUsage{total: 42, monthly: 7})

	usage, err := guard.Usage(context.Background(), uuid.New(), packageID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.TotalImported != 42 || usage.ImportedThisMonth != 7 {
		t.Fatalf("unexpected usage %+v", usage)
	}
	if usage.MonthlyRemaining == nil || *usage.MonthlyRemaining != 3 {
		t.Fatalf("expected 3 remaining, got %v", usage.MonthlyRemaining)
	}
}

func TestUsageUnlimitedMonthlyHasNoRemaining(t *testing.T) {
	plan := &models.PlanLimit{TotalImportLimit: -1, MonthlyImportLimit: -1, BulkImportLimit: -1}
	guard, packageID := newGuard(t, plan, &stubUsage{})

	usage, err := guard.Usage(context.Background(), uuid.New(), packageID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.MonthlyRemaining != nil {
		t.Fatal("unlimited monthly plan must not report remaining")
	}
}

func openUsageDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.ImportRecord{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateRecord(t *testing.T, conn *gorm.DB, tenantID uuid.UUID, status enums.ImportStatus, importedAt *time.Time) {
	t.Helper()
	rec := &models.ImportRecord{
		TenantID:        tenantID,
		StoreConfigID:   uuid.New(),
		CachedProductID: uuid.New(),
		Status:          status,
		ImportedAt:      importedAt,
	}
	if err := conn.Create(rec).Error; err != nil {
		t.Fatalf("create import record: %v", err)
	}
}

func TestCountCompletedSinceUsesImportTime(t *testing.T) {
	conn := openUsageDB(t)
	repo := NewUsageRepository(conn)
	tenantID := uuid.New()

	now := time.Now().UTC()
	since := now.Add(-time.Hour)
	stale := now.Add(-2 * time.Hour)

	// Completed before the window, created now. Only imported_at decides.
	mustCreateRecord(t, conn, tenantID, enums.ImportStatusCompleted, &stale)
	mustCreateRecord(t, conn, tenantID, enums.ImportStatusCompleted, &now)
	mustCreateRecord(t, conn, tenantID, enums.ImportStatusFailed, &now)

	count, err := repo.CountCompletedSince(context.Background(), tenantID, since)
	if err != nil {
		t.Fatalf("count completed since: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one import inside the window, got %d", count)
	}
}
