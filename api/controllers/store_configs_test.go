package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/api/middleware"
	storeconfig "github.com/mdzubayertalukder/dropship-backend/internal/storeconfigs"
	syncsvc "github.com/mdzubayertalukder/dropship-backend/internal/sync"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
)

type stubStoreConfigService struct {
	dto     *storeconfig.StoreConfigDTO
	list    *storeconfig.StoreConfigListResult
	test    *storeconfig.ConnectionTestDTO
	removed int64
	err     error
}

func (s stubStoreConfigService) CreateConfig(context.Context, uuid.UUID, storeconfig.CreateConfigInput) (*storeconfig.StoreConfigDTO, error) {
	return s.dto, s.err
}

func (s stubStoreConfigService) UpdateConfig(context.Context, uuid.UUID, uuid.UUID, storeconfig.UpdateConfigInput) (*storeconfig.StoreConfigDTO, error) {
	return s.dto, s.err
}

func (s stubStoreConfigService) GetConfig(context.Context, uuid.UUID) (*storeconfig.StoreConfigDTO, error) {
	return s.dto, s.err
}

func (s stubStoreConfigService) ListConfigs(context.Context, pagination.Params) (*storeconfig.StoreConfigListResult, error) {
	return s.list, s.err
}

func (s stubStoreConfigService) DeleteConfig(context.Context, uuid.UUID) error {
	return s.err
}

func (s stubStoreConfigService) TestConnection(context.Context, uuid.UUID) (*storeconfig.ConnectionTestDTO, error) {
	return s.test, s.err
}

func (s stubStoreConfigService) TestCredentials(context.Context, storeconfig.TestCredentialsInput) (*storeconfig.ConnectionTestDTO, error) {
	return s.test, s.err
}

func (s stubStoreConfigService) ClearProducts(context.Context, uuid.UUID) (int64, error) {
	return s.removed, s.err
}

type stubSyncService struct {
	summary *syncsvc.SummaryDTO
	err     error
}

func (s stubSyncService) RunSync(context.Context, uuid.UUID) (*syncsvc.SummaryDTO, error) {
	return s.summary, s.err
}

func withUserContext(req *http.Request) *http.Request {
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func withPathParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestStoreConfigCreateSuccess(t *testing.T) {
	dto := &storeconfig.StoreConfigDTO{ID: uuid.New(), Name: "Supplier One"}
	handler := StoreConfigCreate(stubStoreConfigService{dto: dto}, nil)

	payload := []byte(`{
		"name": "Supplier One",
		"base_url": "https://supplier.example.com",
		"api_key": "ck_live",
		"api_secret": "cs_live"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withUserContext(req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data storeconfig.StoreConfigDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Supplier One" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestStoreConfigCreateRejectsMissingFields(t *testing.T) {
	handler := StoreConfigCreate(stubStoreConfigService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withUserContext(req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStoreConfigCreateFailedConnection(t *testing.T) {
	handler := StoreConfigCreate(stubStoreConfigService{
		err: pkgerrors.New(pkgerrors.CodeValidation, "store connection test failed"),
	}, nil)

	payload := []byte(`{
		"name": "Supplier One",
		"base_url": "https://supplier.example.com",
		"api_key": "ck_bad",
		"api_secret": "cs_bad"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withUserContext(req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStoreConfigTestCredentials(t *testing.T) {
	handler := StoreConfigTestCredentials(stubStoreConfigService{
		test: &storeconfig.ConnectionTestDTO{Success: true, Message: "Connection successful"},
	}, nil)

	payload := []byte(`{
		"base_url": "https://supplier.example.com",
		"api_key": "ck_live",
		"api_secret": "cs_live"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs/test-connection", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data storeconfig.ConnectionTestDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Success || envelope.Data.Message != "Connection successful" {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
}

func TestStoreConfigGetNotFound(t *testing.T) {
	handler := StoreConfigGet(stubStoreConfigService{
		err: pkgerrors.New(pkgerrors.CodeNotFound, "store config not found"),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/store-configs/"+uuid.NewString(), nil)
	req = withPathParam(req, "configId", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestStoreConfigDeleteConflict(t *testing.T) {
	handler := StoreConfigDelete(stubStoreConfigService{
		err: pkgerrors.New(pkgerrors.CodeConflict, "cached products still reference this store"),
	}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/store-configs/"+uuid.NewString(), nil)
	req = withPathParam(req, "configId", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestStoreConfigSyncConflictWhileRunning(t *testing.T) {
	handler := StoreConfigSync(stubSyncService{
		err: pkgerrors.New(pkgerrors.CodeConflict, "sync already running for this store"),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs/"+uuid.NewString()+"/sync", nil)
	req = withPathParam(req, "configId", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestStoreConfigSyncReturnsSummary(t *testing.T) {
	summary := &syncsvc.SummaryDTO{Status: "completed", ProductsSynced: 42}
	handler := StoreConfigSync(stubSyncService{summary: summary}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/store-configs/"+uuid.NewString()+"/sync", nil)
	req = withPathParam(req, "configId", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data syncsvc.SummaryDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ProductsSynced != 42 {
		t.Fatalf("unexpected summary %+v", envelope.Data)
	}
}
