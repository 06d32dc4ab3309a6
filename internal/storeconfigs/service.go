package storeconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
	"github.com/mdzubayertalukder/dropship-backend/pkg/woocommerce"
)

// Service exposes admin store configuration management.
type Service interface {
	CreateConfig(ctx context.Context, actorID uuid.UUID, input CreateConfigInput) (*StoreConfigDTO, error)
	UpdateConfig(ctx context.Context, actorID, configID uuid.UUID, input UpdateConfigInput) (*StoreConfigDTO, error)
	GetConfig(ctx context.Context, configID uuid.UUID) (*StoreConfigDTO, error)
	ListConfigs(ctx context.Context, params pagination.Params) (*StoreConfigListResult, error)
	DeleteConfig(ctx context.Context, configID uuid.UUID) error
	TestConnection(ctx context.Context, configID uuid.UUID) (*ConnectionTestDTO, error)
	TestCredentials(ctx context.Context, input TestCredentialsInput) (*ConnectionTestDTO, error)
	ClearProducts(ctx context.Context, configID uuid.UUID) (int64, error)
}

// TestCredentialsInput carries credentials to probe before any config exists.
type TestCredentialsInput struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// CreateConfigInput holds the validated payload to register a store.
type CreateConfigInput struct {
	Name        string
	Description *string
	BaseURL     string
	APIKey      string
	APISecret   string
	IsActive    *bool
}

// UpdateConfigInput holds optional mutation values for a store config.
type UpdateConfigInput struct {
	Name        *string
	Description *string
	BaseURL     *string
	APIKey      *string
	APISecret   *string
	IsActive    *bool
}

type connectionTester interface {
	TestConnection(ctx context.Context, creds woocommerce.Credentials) (string, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	tester   connectionTester
}

// NewService constructs a store configuration service instance.
func NewService(repo *Repository, dbClient *db.Client, tester connectionTester) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store config repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if tester == nil {
		return nil, fmt.Errorf("connection tester required")
	}
	return &service{repo: repo, dbClient: dbClient, tester: tester}, nil
}

// CreateConfig verifies the credentials against the remote store, then
// persists the configuration in idle sync state.
func (s *service) CreateConfig(ctx context.Context, actorID uuid.UUID, input CreateConfigInput) (*StoreConfigDTO, error) {
	baseURL := normalizeBaseURL(input.BaseURL)
	creds := woocommerce.Credentials{BaseURL: baseURL, Key: input.APIKey, Secret: input.APISecret}
	if _, err := s.tester.TestConnection(ctx, creds); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "store connection test failed").
			WithDetails(map[string]string{"reason": err.Error()})
	}

	if _, err := s.repo.FindByName(ctx, input.Name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store config name already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking config name")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	config := &models.StoreConfig{
		Name:        input.Name,
		Description: input.Description,
		BaseURL:     baseURL,
		APIKey:      input.APIKey,
		APISecret:   input.APISecret,
		IsActive:    isActive,
		SyncStatus:  enums.SyncStatusIdle,
		CreatedBy:   &actorID,
	}
	created, err := s.repo.Create(ctx, config)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store config name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating store config")
	}
	return NewStoreConfigDTO(created), nil
}

// UpdateConfig applies a partial update. When any credential field changes,
// the new credentials must pass a connection test before being saved.
func (s *service) UpdateConfig(ctx context.Context, actorID, configID uuid.UUID, input UpdateConfigInput) (*StoreConfigDTO, error) {
	config, err := s.loadConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	credentialsChanged := false
	if input.BaseURL != nil {
		normalized := normalizeBaseURL(*input.BaseURL)
		if normalized != config.BaseURL {
			config.BaseURL = normalized
			credentialsChanged = true
		}
	}
	if input.APIKey != nil && *input.APIKey != config.APIKey {
		config.APIKey = *input.APIKey
		credentialsChanged = true
	}
	if input.APISecret != nil && *input.APISecret != config.APISecret {
		config.APISecret = *input.APISecret
		credentialsChanged = true
	}
	if input.Name != nil {
		config.Name = *input.Name
	}
	if input.Description != nil {
		config.Description = input.Description
	}
	if input.IsActive != nil {
		config.IsActive = *input.IsActive
	}

	if credentialsChanged {
		creds := woocommerce.Credentials{BaseURL: config.BaseURL, Key: config.APIKey, Secret: config.APISecret}
		if _, err := s.tester.TestConnection(ctx, creds); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "store connection test failed").
				WithDetails(map[string]string{"reason": err.Error()})
		}
	}

	config.UpdatedBy = &actorID
	updated, err := s.repo.Update(ctx, config)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store config name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating store config")
	}
	return NewStoreConfigDTO(updated), nil
}

// GetConfig loads one configuration.
func (s *service) GetConfig(ctx context.Context, configID uuid.UUID) (*StoreConfigDTO, error) {
	config, err := s.loadConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	return NewStoreConfigDTO(config), nil
}

// ListConfigs returns one page of configurations.
func (s *service) ListConfigs(ctx context.Context, params pagination.Params) (*StoreConfigListResult, error) {
	params = params.Normalize()
	configs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing store configs")
	}

	dtos := make([]StoreConfigDTO, len(configs))
	for i := range configs {
		dtos[i] = *NewStoreConfigDTO(&configs[i])
	}
	return &StoreConfigListResult{
		Configs: dtos,
		Page:    params.Page,
		PerPage: params.PerPage,
		Total:   total,
	}, nil
}

// DeleteConfig removes the configuration. Configs with live cached products
// must be cleared first so tenants keep consistent import history.
func (s *service) DeleteConfig(ctx context.Context, configID uuid.UUID) error {
	if _, err := s.loadConfig(ctx, configID); err != nil {
		return err
	}

	count, err := s.repo.CountCachedProducts(ctx, configID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting cached products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "store config still has cached products; clear them first")
	}

	if err := s.repo.Delete(ctx, configID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting store config")
	}
	return nil
}

// TestConnection probes the stored credentials.
func (s *service) TestConnection(ctx context.Context, configID uuid.UUID) (*ConnectionTestDTO, error) {
	config, err := s.loadConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	creds := woocommerce.Credentials{BaseURL: config.BaseURL, Key: config.APIKey, Secret: config.APISecret}
	message, err := s.tester.TestConnection(ctx, creds)
	if err != nil {
		return &ConnectionTestDTO{Success: false, Message: err.Error()}, nil
	}
	return &ConnectionTestDTO{Success: true, Message: message}, nil
}

// TestCredentials probes credentials that are not yet attached to a config.
func (s *service) TestCredentials(ctx context.Context, input TestCredentialsInput) (*ConnectionTestDTO, error) {
	creds := woocommerce.Credentials{
		BaseURL: normalizeBaseURL(input.BaseURL),
		Key:     input.APIKey,
		Secret:  input.APISecret,
	}
	message, err := s.tester.TestConnection(ctx, creds)
	if err != nil {
		return &ConnectionTestDTO{Success: false, Message: err.Error()}, nil
	}
	return &ConnectionTestDTO{Success: true, Message: message}, nil
}

// ClearProducts drops every cached product for the config and resets its
// counters inside one transaction.
func (s *service) ClearProducts(ctx context.Context, configID uuid.UUID) (int64, error) {
	config, err := s.loadConfig(ctx, configID)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		count, err := txRepo.DeleteCachedProducts(ctx, configID)
		if err != nil {
			return err
		}
		removed = count

		config.TotalProducts = 0
		config.SyncStatus = enums.SyncStatusIdle
		_, err = txRepo.Update(ctx, config)
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cached products")
	}
	return removed, nil
}

func (s *service) loadConfig(ctx context.Context, configID uuid.UUID) (*models.StoreConfig, error) {
	config, err := s.repo.FindByID(ctx, configID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading store config")
	}
	return config, nil
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
