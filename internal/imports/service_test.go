package imports

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	planlimit "github.com/mdzubayertalukder/dropship-backend/internal/planlimits"
	"github.com/mdzubayertalukder/dropship-backend/internal/quota"
	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

type stubGuard struct {
	checkErr error
	plan     *models.PlanLimit
	usage    *quota.UsageDTO
	checks   []int
}

func (s *stubGuard) CheckImportAllowed(_ context.Context, _, _ uuid.UUID, quantity int) error {
	s.checks = append(s.checks, quantity)
	return s.checkErr
}

func (s *stubGuard) Usage(context.Context, uuid.UUID, uuid.UUID) (*quota.UsageDTO, error) {
	return s.usage, nil
}

func (s *stubGuard) Plan(_ context.Context, packageID uuid.UUID) (*models.PlanLimit, error) {
	if s.plan != nil {
		return s.plan, nil
	}
	return planlimit.DefaultLimits(packageID), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "imports-test", Output: io.Discard})
}

func testImportConfig() config.ImportConfig {
	return config.ImportConfig{MaxMarkupPercent: 1000, MaxBulkErrors: 25}
}

func newTestService(t *testing.T, conn *gorm.DB, guard *stubGuard) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), guard, testImportConfig(), nil, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	return typed.Code()
}

func TestImportProductCreatesFullTree(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	sale := 80.0
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Blue Widget",
		withSKU("WID-1"),
		withPrices(100, &sale),
		withCategories("Gadgets"),
		withTags("blue"),
		withImages("https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"),
		withAttribute("Color", "Blue", "Navy"),
	)
	guard := &stubGuard{}
	svc := newTestService(t, conn, guard)
	tenantID := uuid.New()
	actorID := uuid.New()

	result, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), &actorID, ImportInput{
		CachedProductID: cached.ID,
		MarkupPercent:   25,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(guard.checks) != 1 || guard.checks[0] != 1 {
		t.Fatalf("expected one quota check for quantity 1, got %v", guard.checks)
	}
	if result.Product.RegularPrice != 125 {
		t.Fatalf("expected regular price 125, got %v", result.Product.RegularPrice)
	}
	if result.Product.SalePrice == nil || *result.Product.SalePrice != 100 {
		t.Fatalf("expected sale price 100, got %v", result.Product.SalePrice)
	}
	if result.Product.Price != 100 {
		t.Fatalf("expected effective price to follow the sale price, got %v", result.Product.Price)
	}
	if result.Product.SKU != "WID-1" {
		t.Fatalf("expected original SKU kept, got %s", result.Product.SKU)
	}
	if result.Product.Slug != "blue-widget" {
		t.Fatalf("expected slug blue-widget, got %s", result.Product.Slug)
	}
	if result.Record.Status != enums.ImportStatusCompleted.String() {
		t.Fatalf("expected completed record, got %s", result.Record.Status)
	}
	if result.Record.LocalProductID == nil || *result.Record.LocalProductID != result.Product.ID {
		t.Fatal("record must reference the created product")
	}

	var categoryCount, linkCount, imageCount, attributeCount int64
	conn.Model(&models.ProductCategory{}).Where("tenant_id = ?", tenantID).Count(&categoryCount)
	conn.Model(&models.ProductCategoryLink{}).Where("product_id = ?", result.Product.ID).Count(&linkCount)
	conn.Model(&models.ProductImage{}).Where("product_id = ?", result.Product.ID).Count(&imageCount)
	conn.Model(&models.ProductAttribute{}).Where("product_id = ?", result.Product.ID).Count(&attributeCount)
	if categoryCount != 1 || linkCount != 1 || imageCount != 2 || attributeCount != 1 {
		t.Fatalf("unexpected satellite rows: categories=%d links=%d images=%d attributes=%d",
			categoryCount, linkCount, imageCount, attributeCount)
	}

	var primary models.ProductImage
	if err := conn.First(&primary, "product_id = ? AND is_primary = ?", result.Product.ID, true).Error; err != nil {
		t.Fatalf("load primary image: %v", err)
	}
	if primary.SourceURL != "https://cdn.example.com/1.jpg" {
		t.Fatalf("expected first image primary, got %s", primary.SourceURL)
	}

	var attribute models.ProductAttribute
	if err := conn.First(&attribute, "product_id = ?", result.Product.ID).Error; err != nil {
		t.Fatalf("load attribute: %v", err)
	}
	if attribute.Value != "Blue, Navy" {
		t.Fatalf("expected joined options, got %s", attribute.Value)
	}
}

func TestImportProductRejectsDuplicate(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
	svc := newTestService(t, conn, &stubGuard{})
	tenantID := uuid.New()

	if _, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	_, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeAlreadyImported {
		t.Fatalf("expected already imported, got %v", err)
	}

	// A different tenant can still import the same product.
	if _, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10}); err != nil {
		t.Fatalf("second tenant import: %v", err)
	}
}

func TestImportProductProbesSKUAndSlug(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	first := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withSKU("WID"))
	second := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withSKU("WID"))
	svc := newTestService(t, conn, &stubGuard{})
	tenantID := uuid.New()

	one, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: first.ID, MarkupPercent: 0})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	two, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: second.ID, MarkupPercent: 0})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if one.Product.SKU != "WID" || two.Product.SKU != "WID-1" {
		t.Fatalf("expected SKU probing, got %s and %s", one.Product.SKU, two.Product.SKU)
	}
	if one.Product.Slug != "widget" || two.Product.Slug != "widget-1" {
		t.Fatalf("expected slug probing, got %s and %s", one.Product.Slug, two.Product.Slug)
	}
}

func TestImportProductGeneratesFallbackSKU(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withSKU(""))
	svc := newTestService(t, conn, &stubGuard{})

	result, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 0})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Product.SKU) != 11 || result.Product.SKU[:3] != "DS-" {
		t.Fatalf("expected generated SKU, got %s", result.Product.SKU)
	}
}

func TestImportProductQuotaRejection(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
	guard := &stubGuard{checkErr: pkgerrors.New(pkgerrors.CodeQuotaExceeded, "monthly import limit of 100 reached")}
	svc := newTestService(t, conn, guard)

	_, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeQuotaExceeded {
		t.Fatalf("expected quota rejection, got %v", err)
	}

	var products int64
	conn.Model(&models.Product{}).Count(&products)
	if products != 0 {
		t.Fatalf("expected no products written, got %d", products)
	}
}

func TestImportProductMarkupBounds(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
	svc := newTestService(t, conn, &stubGuard{})

	_, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: -5})
	if errCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative markup, got %v", err)
	}
	_, err = svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 1001})
	if errCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error over ceiling, got %v", err)
	}
}

func TestImportProductPlanMarkupBounds(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
	min, max := 10.0, 50.0
	plan := planlimit.DefaultLimits(uuid.New())
	plan.MarkupMin = &min
	plan.MarkupMax = &max
	svc := newTestService(t, conn, &stubGuard{plan: plan})

	_, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 5})
	if errCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected plan markup rejection, got %v", err)
	}
}

func TestImportProductRestrictedCategory(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withCategories("Weapons"))
	plan := planlimit.DefaultLimits(uuid.New())
	plan.RestrictedCategories = []string{"Weapons"}
	svc := newTestService(t, conn, &stubGuard{plan: plan})

	_, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden category, got %v", err)
	}
}

func TestImportProductInactiveStore(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, false)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
	svc := newTestService(t, conn, &stubGuard{})

	_, err := svc.ImportProduct(context.Background(), uuid.New(), uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected disabled store rejection, got %v", err)
	}
}

func TestImportProductWithoutPriceWritesFailedRecord(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withNoPrice())
	svc := newTestService(t, conn, &stubGuard{})
	tenantID := uuid.New()

	_, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var record models.ImportRecord
	if err := conn.First(&record, "tenant_id = ?", tenantID).Error; err != nil {
		t.Fatalf("load failed record: %v", err)
	}
	if record.Status != enums.ImportStatusFailed {
		t.Fatalf("expected failed record, got %s", record.Status)
	}
	if record.ErrorMessage == nil {
		t.Fatal("expected error message on failed record")
	}
}

func TestBulkImportAggregatesOutcomes(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	ok1 := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget A")
	ok2 := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget B")
	dup := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget C")
	broken := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget D", withNoPrice())
	guard := &stubGuard{}
	svc := newTestService(t, conn, guard)
	tenantID := uuid.New()

	if _, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: dup.ID, MarkupPercent: 10}); err != nil {
		t.Fatalf("seed duplicate: %v", err)
	}

	batch, err := svc.BulkImport(context.Background(), tenantID, uuid.New(), nil, BulkImportInput{
		CachedProductIDs: []uuid.UUID{ok1.ID, ok2.ID, dup.ID, broken.ID},
		MarkupPercent:    10,
	})
	if err != nil {
		t.Fatalf("bulk import: %v", err)
	}
	if batch.Requested != 4 || batch.Imported != 2 || batch.Skipped != 1 || batch.Failed != 1 {
		t.Fatalf("unexpected batch tally %+v", batch)
	}
	if len(batch.Errors) != 2 {
		t.Fatalf("expected two item errors, got %d", len(batch.Errors))
	}
	if len(guard.checks) != 2 || guard.checks[1] != 4 {
		t.Fatalf("expected quota check for quantity 4, got %v", guard.checks)
	}
}

func TestBulkImportRequiresProducts(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, &stubGuard{})
	_, err := svc.BulkImport(context.Background(), uuid.New(), uuid.New(), nil, BulkImportInput{MarkupPercent: 10})
	if errCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviewPricing(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	sale := 40.0
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget", withPrices(50, &sale))
	svc := newTestService(t, conn, &stubGuard{})

	preview, err := svc.PreviewPricing(context.Background(), cached.ID, 20)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.OriginalPrice != 50 || preview.FinalPrice != 60 {
		t.Fatalf("unexpected regular preview %+v", preview)
	}
	if preview.FinalSale == nil || *preview.FinalSale != 48 {
		t.Fatalf("unexpected sale preview %+v", preview)
	}
}

func TestHistoryFiltersAndPaginates(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	svc := newTestService(t, conn, &stubGuard{})
	tenantID := uuid.New()

	for i := 0; i < 3; i++ {
		cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget")
		if _, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10}); err != nil {
			t.Fatalf("seed import %d: %v", i, err)
		}
	}
	failing := mustCreateCachedProduct(t, conn, storeConfig.ID, "Broken", withNoPrice())
	if _, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: failing.ID, MarkupPercent: 10}); err == nil {
		t.Fatal("expected broken import to fail")
	}

	all, err := svc.History(context.Background(), tenantID, HistoryFilters{}, pagination.Params{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if all.Meta.Total != 4 {
		t.Fatalf("expected 4 records, got %d", all.Meta.Total)
	}

	completed := enums.ImportStatusCompleted
	filtered, err := svc.History(context.Background(), tenantID, HistoryFilters{Status: &completed}, pagination.Params{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("filtered history: %v", err)
	}
	if filtered.Meta.Total != 3 || len(filtered.Records) != 2 {
		t.Fatalf("expected 3 completed across pages of 2, got total=%d page=%d", filtered.Meta.Total, len(filtered.Records))
	}
}

func TestRemoveDeletesRecordOnly(t *testing.T) {
	conn := openTestDB(t)
	storeConfig := mustCreateTestConfig(t, conn, true)
	cached := mustCreateCachedProduct(t, conn, storeConfig.ID, "Widget",
		withCategories("Gadgets"), withImages("https://cdn.example.com/1.jpg"))
	svc := newTestService(t, conn, &stubGuard{})
	tenantID := uuid.New()

	result, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := svc.Remove(context.Background(), tenantID, result.Record.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var products, records int64
	conn.Model(&models.Product{}).Where("tenant_id = ?", tenantID).Count(&products)
	conn.Model(&models.ImportRecord{}).Where("tenant_id = ?", tenantID).Count(&records)
	if records != 0 {
		t.Fatalf("expected record deleted, got %d", records)
	}
	if products != 1 {
		t.Fatalf("local product must survive removal, got %d", products)
	}

	// Removal frees the slot for a fresh import; the survivor's SKU and slug
	// force suffixed values on the second pass.
	again, err := svc.ImportProduct(context.Background(), tenantID, uuid.New(), nil, ImportInput{CachedProductID: cached.ID, MarkupPercent: 10})
	if err != nil {
		t.Fatalf("re-import after removal: %v", err)
	}
	if again.Product.Slug == result.Product.Slug {
		t.Fatalf("expected suffixed slug, got %q twice", again.Product.Slug)
	}
}

func TestRemoveUnknownRecord(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, &stubGuard{})
	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	if errCode(t, err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUsageDelegatesToGuard(t *testing.T) {
	conn := openTestDB(t)
	remaining := int64(7)
	guard := &stubGuard{usage: &quota.UsageDTO{MonthlyRemaining: &remaining}}
	svc := newTestService(t, conn, guard)

	usage, err := svc.Usage(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.MonthlyRemaining == nil || *usage.MonthlyRemaining != 7 {
		t.Fatalf("unexpected usage %+v", usage)
	}
}
