package controllers

import (
	"net/http"

	storeconfig "github.com/mdzubayertalukder/dropship-backend/internal/storeconfigs"
	syncsvc "github.com/mdzubayertalukder/dropship-backend/internal/sync"

	"github.com/mdzubayertalukder/dropship-backend/api/responses"
	"github.com/mdzubayertalukder/dropship-backend/api/validators"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

type storeConfigCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=190"`
	Description *string `json:"description,omitempty"`
	BaseURL     string  `json:"base_url" validate:"required,url"`
	APIKey      string  `json:"api_key" validate:"required,min=1"`
	APISecret   string  `json:"api_secret" validate:"required,min=1"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type testCredentialsRequest struct {
	BaseURL   string `json:"base_url" validate:"required,url"`
	APIKey    string `json:"api_key" validate:"required,min=1"`
	APISecret string `json:"api_secret" validate:"required,min=1"`
}

type storeConfigUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=190"`
	Description *string `json:"description,omitempty"`
	BaseURL     *string `json:"base_url,omitempty" validate:"omitempty,url"`
	APIKey      *string `json:"api_key,omitempty" validate:"omitempty,min=1"`
	APISecret   *string `json:"api_secret,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// StoreConfigCreate registers a supplier store after a successful connection
// test.
func StoreConfigCreate(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := userIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storeConfigCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateConfig(r.Context(), actorID, storeconfig.CreateConfigInput{
			Name:        validators.SanitizeString(payload.Name, 190),
			Description: payload.Description,
			BaseURL:     payload.BaseURL,
			APIKey:      payload.APIKey,
			APISecret:   payload.APISecret,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// StoreConfigUpdate applies a partial update, re-testing credentials when
// they change.
func StoreConfigUpdate(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := userIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storeConfigUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateConfig(r.Context(), actorID, configID, storeconfig.UpdateConfigInput{
			Name:        payload.Name,
			Description: payload.Description,
			BaseURL:     payload.BaseURL,
			APIKey:      payload.APIKey,
			APISecret:   payload.APISecret,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func StoreConfigGet(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetConfig(r.Context(), configID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func StoreConfigList(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListConfigs(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func StoreConfigDelete(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteConfig(r.Context(), configID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// StoreConfigTestConnection probes the stored credentials against the remote
// store.
func StoreConfigTestConnection(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.TestConnection(r.Context(), configID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StoreConfigTestCredentials probes credentials supplied in the request body,
// before any config exists.
func StoreConfigTestCredentials(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload testCredentialsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.TestCredentials(r.Context(), storeconfig.TestCredentialsInput{
			BaseURL:   payload.BaseURL,
			APIKey:    payload.APIKey,
			APISecret: payload.APISecret,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StoreConfigClearProducts drops every cached product for the store.
func StoreConfigClearProducts(svc storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		removed, err := svc.ClearProducts(r.Context(), configID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": removed})
	}
}

// StoreConfigSync runs a catalog sync for the store and returns the summary.
func StoreConfigSync(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}
		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.RunSync(r.Context(), configID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
