package controllers

import (
	"net/http"
	"time"

	planlimit "github.com/mdzubayertalukder/dropship-backend/internal/planlimits"

	"github.com/mdzubayertalukder/dropship-backend/api/responses"
	"github.com/mdzubayertalukder/dropship-backend/api/validators"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

type planLimitRequest struct {
	MonthlyImportLimit   *int     `json:"monthly_import_limit,omitempty"`
	TotalImportLimit     *int     `json:"total_import_limit,omitempty"`
	BulkImportLimit      *int     `json:"bulk_import_limit,omitempty"`
	AutoSyncEnabled      *bool    `json:"auto_sync_enabled,omitempty"`
	MarkupMin            *float64 `json:"markup_min,omitempty"`
	MarkupMax            *float64 `json:"markup_max,omitempty"`
	AllowedCategories    []string `json:"allowed_categories,omitempty"`
	RestrictedCategories []string `json:"restricted_categories,omitempty"`
}

// PlanLimitGet returns the effective limits for a package, falling back to
// the built-in defaults.
func PlanLimitGet(svc planlimit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageID, err := pathUUID(r, "packageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetLimits(r.Context(), packageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PlanLimitUpsert creates or partially updates a package's limits.
func PlanLimitUpsert(svc planlimit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageID, err := pathUUID(r, "packageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload planLimitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpsertLimits(r.Context(), packageID, planlimit.UpsertInput{
			MonthlyImportLimit:   payload.MonthlyImportLimit,
			TotalImportLimit:     payload.TotalImportLimit,
			BulkImportLimit:      payload.BulkImportLimit,
			AutoSyncEnabled:      payload.AutoSyncEnabled,
			MarkupMin:            payload.MarkupMin,
			MarkupMax:            payload.MarkupMax,
			AllowedCategories:    payload.AllowedCategories,
			RestrictedCategories: payload.RestrictedCategories,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func PlanLimitList(svc planlimit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limits, err := svc.ListLimits(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"limits": limits})
	}
}

func PlanLimitDelete(svc planlimit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageID, err := pathUUID(r, "packageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteLimits(r.Context(), packageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ImportReport aggregates per-tenant import counts for administrators.
func ImportReport(svc planlimit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ImportReport(r.Context(), time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tenants": rows})
	}
}
