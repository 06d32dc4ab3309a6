package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/internal/quota"
	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
	"github.com/mdzubayertalukder/dropship-backend/pkg/metrics"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

// Service moves cached products into tenant catalogs with markup pricing.
type Service interface {
	ImportProduct(ctx context.Context, tenantID, packageID uuid.UUID, actorID *uuid.UUID, input ImportInput) (*ImportResultDTO, error)
	BulkImport(ctx context.Context, tenantID, packageID uuid.UUID, actorID *uuid.UUID, input BulkImportInput) (*BulkImportResultDTO, error)
	PreviewPricing(ctx context.Context, cachedProductID uuid.UUID, markupPercent float64) (*PricingPreviewDTO, error)
	History(ctx context.Context, tenantID uuid.UUID, filters HistoryFilters, params pagination.Params) (*HistoryResult, error)
	Remove(ctx context.Context, tenantID, recordID uuid.UUID) error
	Usage(ctx context.Context, tenantID, packageID uuid.UUID) (*quota.UsageDTO, error)
}

// ImportInput is the payload for a single-product import.
type ImportInput struct {
	CachedProductID uuid.UUID
	MarkupPercent   float64
}

// BulkImportInput is the payload for a bulk batch sharing one markup.
type BulkImportInput struct {
	CachedProductIDs []uuid.UUID
	MarkupPercent    float64
}

type quotaGuard interface {
	CheckImportAllowed(ctx context.Context, tenantID, packageID uuid.UUID, quantity int) error
	Usage(ctx context.Context, tenantID, packageID uuid.UUID) (*quota.UsageDTO, error)
	Plan(ctx context.Context, packageID uuid.UUID) (*models.PlanLimit, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	guard    quotaGuard
	cfg      config.ImportConfig
	metrics  *metrics.PipelineMetrics
	logger   *logger.Logger
}

// NewService constructs an import service instance.
func NewService(repo *Repository, dbClient *db.Client, guard quotaGuard, cfg config.ImportConfig, pipeline *metrics.PipelineMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("imports repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if guard == nil {
		return nil, fmt.Errorf("quota guard required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		guard:    guard,
		cfg:      cfg,
		metrics:  pipeline,
		logger:   logg,
	}, nil
}

// ImportProduct copies one cached product into the tenant's catalog. The
// quota guard and plan rules run before any row is written; the product tree
// and its completed record are created in a single transaction.
func (s *service) ImportProduct(ctx context.Context, tenantID, packageID uuid.UUID, actorID *uuid.UUID, input ImportInput) (*ImportResultDTO, error) {
	if err := s.validateMarkup(input.MarkupPercent); err != nil {
		return nil, err
	}
	if err := s.guard.CheckImportAllowed(ctx, tenantID, packageID, 1); err != nil {
		s.metrics.IncQuotaRejection(quotaReason(err))
		return nil, err
	}

	started := time.Now()
	result, err := s.importOne(ctx, tenantID, packageID, actorID, input.CachedProductID, input.MarkupPercent, enums.ImportTypeSingle)
	s.metrics.ObserveImportDuration(enums.ImportTypeSingle.String(), time.Since(started))
	if err != nil {
		s.metrics.IncImport("failed")
		return nil, err
	}
	s.metrics.IncImport("completed")
	return result, nil
}

// BulkImport runs one import per requested product under a shared markup.
// Individual failures never abort the batch; they are tallied and reported.
func (s *service) BulkImport(ctx context.Context, tenantID, packageID uuid.UUID, actorID *uuid.UUID, input BulkImportInput) (*BulkImportResultDTO, error) {
	if len(input.CachedProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk import requires at least one product")
	}
	if err := s.validateMarkup(input.MarkupPercent); err != nil {
		return nil, err
	}
	if err := s.guard.CheckImportAllowed(ctx, tenantID, packageID, len(input.CachedProductIDs)); err != nil {
		s.metrics.IncQuotaRejection(quotaReason(err))
		return nil, err
	}

	started := time.Now()
	batch := &BulkImportResultDTO{Requested: len(input.CachedProductIDs)}
	for _, cachedProductID := range input.CachedProductIDs {
		result, err := s.importOne(ctx, tenantID, packageID, actorID, cachedProductID, input.MarkupPercent, enums.ImportTypeBulk)
		if err == nil {
			batch.Imported++
			batch.Results = append(batch.Results, *result)
			s.metrics.IncImport("completed")
			continue
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeAlreadyImported {
			batch.Skipped++
			s.metrics.IncImport("skipped")
		} else {
			batch.Failed++
			s.metrics.IncImport("failed")
		}
		if len(batch.Errors) < s.maxBulkErrors() {
			batch.Errors = append(batch.Errors, BulkItemError{
				CachedProductID: cachedProductID,
				Reason:          err.Error(),
			})
		}
	}
	s.metrics.ObserveImportDuration(enums.ImportTypeBulk.String(), time.Since(started))
	return batch, nil
}

// PreviewPricing computes the tenant-facing prices a markup would produce,
// without writing anything.
func (s *service) PreviewPricing(ctx context.Context, cachedProductID uuid.UUID, markupPercent float64) (*PricingPreviewDTO, error) {
	if err := s.validateMarkup(markupPercent); err != nil {
		return nil, err
	}
	cached, _, err := s.loadCachedProduct(ctx, cachedProductID)
	if err != nil {
		return nil, err
	}
	base := cached.BasePrice()
	if base == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no price to mark up")
	}

	preview := &PricingPreviewDTO{
		CachedProductID: cachedProductID,
		MarkupPercent:   markupPercent,
		OriginalPrice:   *base,
		FinalPrice:      applyMarkup(*base, markupPercent),
	}
	if cached.SalePrice != nil {
		finalSale := applyMarkup(*cached.SalePrice, markupPercent)
		preview.OriginalSale = cached.SalePrice
		preview.FinalSale = &finalSale
	}
	return preview, nil
}

// History returns one page of the tenant's import records.
func (s *service) History(ctx context.Context, tenantID uuid.UUID, filters HistoryFilters, params pagination.Params) (*HistoryResult, error) {
	params = params.Normalize()
	records, total, err := s.repo.ListRecords(ctx, tenantID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing import records")
	}
	dtos := make([]ImportRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, NewImportRecordDTO(&records[i]))
	}
	return &HistoryResult{Records: dtos, Meta: pagination.NewMeta(params, total)}, nil
}

// Remove deletes an import record so the tenant can import the product
// again later. The local product created by the import stays in place.
func (s *service) Remove(ctx context.Context, tenantID, recordID uuid.UUID) error {
	if _, err := s.repo.FindRecord(ctx, tenantID, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "import record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading import record")
	}
	if err := s.repo.DeleteRecord(ctx, tenantID, recordID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing import record")
	}
	return nil
}

// Usage reports the tenant's quota consumption.
func (s *service) Usage(ctx context.Context, tenantID, packageID uuid.UUID) (*quota.UsageDTO, error) {
	return s.guard.Usage(ctx, tenantID, packageID)
}

// importOne performs the per-product work shared by single and bulk imports.
// Plan rules are evaluated against the specific product here; the batch-level
// quota check has already run.
func (s *service) importOne(ctx context.Context, tenantID, packageID uuid.UUID, actorID *uuid.UUID, cachedProductID uuid.UUID, markupPercent float64, importType enums.ImportType) (*ImportResultDTO, error) {
	cached, storeConfig, err := s.loadCachedProduct(ctx, cachedProductID)
	if err != nil {
		return nil, err
	}

	plan, err := s.guard.Plan(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !plan.MarkupAllowed(markupPercent) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "markup outside the bounds allowed by the plan")
	}
	for _, category := range cached.Categories {
		if !plan.CategoryAllowed(category.Name) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "plan does not allow importing from this category").
				WithDetails(map[string]string{"category": category.Name})
		}
	}

	base := cached.BasePrice()
	if base == nil {
		return nil, s.failImport(ctx, tenantID, actorID, cached, storeConfig, markupPercent, importType,
			pkgerrors.New(pkgerrors.CodeValidation, "product has no price to mark up"))
	}

	already, err := s.repo.HasCompletedImport(ctx, tenantID, cachedProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking previous imports")
	}
	if already {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyImported, "product already imported")
	}

	var result *ImportResultDTO
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.createProductAndRecord(ctx, s.repo.WithTx(tx), tenantID, actorID, cached, storeConfig, *base, markupPercent, importType)
		return txErr
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeAlreadyImported {
			return nil, err
		}
		if db.IsUniqueViolation(err, "idx_import_records_tenant_product_completed") {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyImported, "product already imported")
		}
		return nil, s.failImport(ctx, tenantID, actorID, cached, storeConfig, markupPercent, importType, err)
	}

	s.fanOut(ctx, tenantID, result.Product.ID, cached)
	return result, nil
}

// createProductAndRecord writes the product row and its completed import
// record. Runs inside a transaction so a duplicate racing past the pre-check
// rolls back cleanly.
func (s *service) createProductAndRecord(ctx context.Context, repo *Repository, tenantID uuid.UUID, actorID *uuid.UUID, cached *models.CachedProduct, storeConfig *models.StoreConfig, base, markupPercent float64, importType enums.ImportType) (*ImportResultDTO, error) {
	already, err := repo.HasCompletedImport(ctx, tenantID, cached.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyImported, "product already imported")
	}

	skuBase := strings.TrimSpace(cached.SKU)
	if skuBase == "" {
		skuBase = fallbackSKU()
	}
	sku, err := uniqueCandidate(skuBase, func(candidate string) (bool, error) {
		return repo.SKUExists(ctx, tenantID, candidate)
	})
	if err != nil {
		return nil, err
	}

	slugBase := cached.Slug
	if slugBase == "" {
		slugBase = slugify(cached.Name)
	}
	slug, err := uniqueCandidate(slugBase, func(candidate string) (bool, error) {
		return repo.SlugExists(ctx, tenantID, candidate)
	})
	if err != nil {
		return nil, err
	}

	finalRegular := applyMarkup(base, markupPercent)
	finalPrice := finalRegular
	var finalSale *float64
	if cached.SalePrice != nil {
		marked := applyMarkup(*cached.SalePrice, markupPercent)
		finalSale = &marked
		finalPrice = marked
	}

	product := &models.Product{
		TenantID:         tenantID,
		Name:             cached.Name,
		Slug:             slug,
		SKU:              sku,
		Description:      cached.Description,
		ShortDescription: cached.ShortDescription,
		Price:            finalPrice,
		RegularPrice:     finalRegular,
		SalePrice:        finalSale,
		StockQuantity:    cached.StockQuantity,
		StockStatus:      cached.StockStatus,
		Status:           enums.ProductStatusPublish,
		Featured:         cached.Featured,
		SourceConfigID:   &storeConfig.ID,
		SourceProductID:  &cached.ExternalProductID,
		MarkupPercent:    &markupPercent,
		OriginalPrice:    &base,
		CreatedBy:        actorID,
	}
	if _, err := repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	record := &models.ImportRecord{
		TenantID:        tenantID,
		StoreConfigID:   storeConfig.ID,
		CachedProductID: cached.ID,
		LocalProductID:  &product.ID,
		ImportType:      importType,
		Status:          enums.ImportStatusCompleted,
		MarkupPercent:   markupPercent,
		OriginalPrice:   &base,
		FinalPrice:      &finalPrice,
		ImportedAt:      touchRecordTime(),
		ImportedBy:      actorID,
	}
	if _, err := repo.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	return &ImportResultDTO{
		Record:  NewImportRecordDTO(record),
		Product: NewProductDTO(product),
	}, nil
}

// fanOut attaches categories, tags, images and attributes to an imported
// product. The import has already committed, so individual failures are
// logged and skipped rather than surfaced.
func (s *service) fanOut(ctx context.Context, tenantID, productID uuid.UUID, cached *models.CachedProduct) {
	for _, ref := range cached.Categories {
		category, err := s.repo.FindOrCreateCategory(ctx, tenantID, ref.Name, slugify(ref.Name))
		if err == nil {
			err = s.repo.LinkCategory(ctx, productID, category.ID)
		}
		if err != nil {
			s.logger.Error(ctx, "attaching category to imported product", err)
		}
	}
	for _, ref := range cached.Tags {
		tag, err := s.repo.FindOrCreateTag(ctx, tenantID, ref.Name, slugify(ref.Name))
		if err == nil {
			err = s.repo.LinkTag(ctx, productID, tag.ID)
		}
		if err != nil {
			s.logger.Error(ctx, "attaching tag to imported product", err)
		}
	}
	for i, ref := range cached.Images {
		image := &models.ProductImage{
			ProductID: productID,
			SourceURL: ref.Src,
			AltText:   ref.Alt,
			IsPrimary: i == 0,
			SortOrder: i,
		}
		if err := s.repo.CreateImage(ctx, image); err != nil {
			s.logger.Error(ctx, "attaching image to imported product", err)
		}
	}
	for _, ref := range cached.Attributes {
		attribute := &models.ProductAttribute{
			ProductID:   productID,
			Name:        ref.Name,
			Value:       strings.Join(ref.Options, ", "),
			IsVariation: ref.Variation,
		}
		if err := s.repo.CreateAttribute(ctx, attribute); err != nil {
			s.logger.Error(ctx, "attaching attribute to imported product", err)
		}
	}
}

// failImport persists a failed record outside the rolled-back transaction so
// the attempt stays visible in history, then returns the original error.
func (s *service) failImport(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, cached *models.CachedProduct, storeConfig *models.StoreConfig, markupPercent float64, importType enums.ImportType, cause error) error {
	message := cause.Error()
	record := &models.ImportRecord{
		TenantID:        tenantID,
		StoreConfigID:   storeConfig.ID,
		CachedProductID: cached.ID,
		ImportType:      importType,
		Status:          enums.ImportStatusFailed,
		MarkupPercent:   markupPercent,
		OriginalPrice:   cached.BasePrice(),
		ErrorMessage:    &message,
		ImportedBy:      actorID,
	}
	if _, err := s.repo.CreateRecord(ctx, record); err != nil {
		s.logger.Error(ctx, "recording failed import", err)
	}
	if pkgerrors.As(cause) != nil {
		return cause
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "importing product")
}

func (s *service) loadCachedProduct(ctx context.Context, cachedProductID uuid.UUID) (*models.CachedProduct, *models.StoreConfig, error) {
	cached, storeConfig, err := s.repo.FindCachedProduct(ctx, cachedProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cached product")
	}
	if !storeConfig.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "source store is disabled")
	}
	return cached, storeConfig, nil
}

func (s *service) validateMarkup(markupPercent float64) error {
	if markupPercent < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "markup percent cannot be negative")
	}
	if s.cfg.MaxMarkupPercent > 0 && markupPercent > s.cfg.MaxMarkupPercent {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("markup percent cannot exceed %.0f", s.cfg.MaxMarkupPercent))
	}
	return nil
}

func (s *service) maxBulkErrors() int {
	if s.cfg.MaxBulkErrors > 0 {
		return s.cfg.MaxBulkErrors
	}
	return 25
}

// quotaReason extracts the rejection reason label from a quota error.
func quotaReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "unknown"
	}
	if details, ok := typed.Details().(map[string]string); ok {
		if reason := details["reason"]; reason != "" {
			return reason
		}
	}
	return "unknown"
}
