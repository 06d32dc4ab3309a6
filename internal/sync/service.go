package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
	"github.com/mdzubayertalukder/dropship-backend/pkg/metrics"
	"github.com/mdzubayertalukder/dropship-backend/pkg/woocommerce"
)

// maxReportedErrors bounds how many product-level errors a summary carries.
const maxReportedErrors = 10

// Service runs catalog sync for one store configuration at a time.
type Service interface {
	RunSync(ctx context.Context, configID uuid.UUID) (*SummaryDTO, error)
}

type pageFetcher interface {
	FetchPage(ctx context.Context, creds woocommerce.Credentials, page, perPage int) (*woocommerce.Page, error)
}

type locker interface {
	AcquireSyncLock(ctx context.Context, configID string, ttl time.Duration) (bool, error)
	ReleaseSyncLock(ctx context.Context, configID string) error
}

type service struct {
	repo    *Repository
	fetcher pageFetcher
	locks   locker
	cfg     config.SyncConfig
	metrics *metrics.PipelineMetrics
	logger  *logger.Logger
}

// NewService constructs the sync service.
func NewService(repo *Repository, fetcher pageFetcher, locks locker, cfg config.SyncConfig, pipelineMetrics *metrics.PipelineMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sync repository required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher required")
	}
	if locks == nil {
		return nil, fmt.Errorf("locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		fetcher: fetcher,
		locks:   locks,
		cfg:     cfg,
		metrics: pipelineMetrics,
		logger:  logg,
	}, nil
}

// RunSync walks the remote product listing page by page and upserts every
// product into the cache. Only one run per config may be active; concurrent
// triggers are rejected.
func (s *service) RunSync(ctx context.Context, configID uuid.UUID) (*SummaryDTO, error) {
	config, err := s.repo.FindConfig(ctx, configID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading store config")
	}
	if !config.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "store config is inactive")
	}

	acquired, err := s.locks.AcquireSyncLock(ctx, configID.String(), s.cfg.LockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring sync lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sync already running for this store")
	}
	defer func() {
		if err := s.locks.ReleaseSyncLock(context.WithoutCancel(ctx), configID.String()); err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("releasing sync lock: %v", err))
		}
	}()

	ctx = s.logger.WithStoreConfigID(ctx, configID.String())
	startedAt := time.Now().UTC()

	config.SyncStatus = enums.SyncStatusSyncing
	if err := s.repo.SaveConfig(ctx, config); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking sync started")
	}
	s.logger.Info(ctx, "catalog sync started")

	summary, runErr := s.walkPages(ctx, config, startedAt)

	finishedAt := time.Now().UTC()
	summary.FinishedAt = finishedAt
	duration := finishedAt.Sub(startedAt)
	s.metrics.ObserveSyncDuration(configID.String(), duration)

	total, countErr := s.repo.CountProducts(ctx, configID)
	if countErr != nil {
		runErr = multierr.Append(runErr, countErr)
	}
	summary.TotalProducts = int(total)

	if runErr != nil {
		config.SyncStatus = enums.SyncStatusFailed
		summary.Status = enums.SyncStatusFailed.String()
		s.metrics.IncSyncFailure(configID.String())
		s.logger.Error(ctx, "catalog sync failed", runErr)
	} else {
		config.SyncStatus = enums.SyncStatusCompleted
		summary.Status = enums.SyncStatusCompleted.String()
		s.metrics.IncSyncSuccess(configID.String())
		s.logger.Info(ctx, fmt.Sprintf("catalog sync completed: %d products", summary.ProductsSynced))
	}
	now := time.Now().UTC()
	config.LastSyncAt = &now
	config.TotalProducts = int(total)
	if err := s.repo.SaveConfig(ctx, config); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving sync result")
	}

	s.metrics.AddProductsSynced(configID.String(), summary.ProductsSynced)

	if runErr != nil {
		return summary, pkgerrors.Wrap(pkgerrors.CodeDependency, runErr, "catalog sync failed").
			WithDetails(summary)
	}
	return summary, nil
}

// walkPages fetches pages up to the remote page count or the configured
// ceiling, whichever is lower. Product-level upsert failures are collected
// without aborting the run; a page fetch failure ends it.
func (s *service) walkPages(ctx context.Context, config *models.StoreConfig, startedAt time.Time) (*SummaryDTO, error) {
	creds := woocommerce.Credentials{BaseURL: config.BaseURL, Key: config.APIKey, Secret: config.APISecret}
	summary := &SummaryDTO{ConfigID: config.ID, StartedAt: startedAt}

	var productErrs error
	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	for page := 1; page <= maxPages; page++ {
		fetched, err := s.fetcher.FetchPage(ctx, creds, page, s.cfg.PageSize)
		if err != nil {
			return summary, multierr.Append(productErrs, fmt.Errorf("fetching page %d: %w", page, err))
		}
		summary.PagesFetched++

		syncedAt := time.Now().UTC()
		for _, remote := range fetched.Products {
			product := normalizeProduct(config.ID, remote, syncedAt)
			if err := s.repo.UpsertProduct(ctx, &product); err != nil {
				productErrs = multierr.Append(productErrs, fmt.Errorf("product %d: %w", remote.ID, err))
				if len(summary.Errors) < maxReportedErrors {
					summary.Errors = append(summary.Errors, fmt.Sprintf("product %d: %v", remote.ID, err))
				}
				continue
			}
			summary.ProductsSynced++
		}

		if !fetched.HasMore || fetched.TotalPages <= page {
			break
		}
	}

	if productErrs != nil {
		s.logger.Warn(ctx, fmt.Sprintf("skipped %d products: %v", len(multierr.Errors(productErrs)), productErrs))
	}
	return summary, nil
}
